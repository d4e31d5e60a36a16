package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, env *Env, opts ...Option) *Engine {
	t.Helper()
	e, err := New(env, opts...)
	require.NoError(t, err)
	return e
}

func openEnv(width, height int) *Env {
	return &Env{Width: width, Height: height, Action: func(string) {}}
}

func TestNew_InvalidEnv(t *testing.T) {
	env := createTestEnv()
	env.Width = 0

	e, err := New(env)
	assert.Nil(t, e)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestNew_InitialState(t *testing.T) {
	e := newTestEngine(t, createTestEnv())

	assert.Equal(t, Cell{Row: 0, Col: 0}, e.Position())
	assert.Equal(t, 0, e.ActionsDone())
	assert.Equal(t, DefaultActionLimit, e.ActionLimit())
	assert.NoError(t, e.Crashed())
	assert.Equal(t, []Cell{{Row: 1, Col: 2}}, e.PaintedCells())
}

func TestExampleScenario(t *testing.T) {
	e := newTestEngine(t, createTestEnv())

	err := e.Right()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalMove))
	assert.Equal(t, Cell{Row: 0, Col: 0}, e.Position())

	e.ResetEnv()
	require.NoError(t, e.Down())
	require.NoError(t, e.Right())
	assert.Equal(t, Cell{Row: 1, Col: 1}, e.Position())
}

func TestBoundary(t *testing.T) {
	sizes := []struct{ w, h int }{{1, 1}, {3, 2}, {4, 5}}

	for _, size := range sizes {
		for r := 0; r < size.h; r++ {
			for c := 0; c < size.w; c++ {
				var dirs []Direction
				if r == 0 {
					dirs = append(dirs, Up)
				}
				if r == size.h-1 {
					dirs = append(dirs, Down)
				}
				if c == 0 {
					dirs = append(dirs, Left)
				}
				if c == size.w-1 {
					dirs = append(dirs, Right)
				}

				for _, d := range dirs {
					t.Run(fmt.Sprintf("%dx%d_%d_%d_%s", size.w, size.h, r, c, d), func(t *testing.T) {
						env := openEnv(size.w, size.h)
						env.StartRow, env.StartCol = r, c
						e := newTestEngine(t, env)

						assert.True(t, e.WallFrom(d))
						err := e.Move(d)
						assert.True(t, errors.Is(err, ErrIllegalMove))
						assert.Equal(t, Cell{Row: r, Col: c}, e.Position())
					})
				}
			}
		}
	}
}

func TestWallSymmetry(t *testing.T) {
	env := openEnv(3, 3)
	env.Walls = []Wall{
		{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		{{Row: 1, Col: 1}, {Row: 2, Col: 1}},
	}
	e := newTestEngine(t, env)

	for _, w := range env.Walls {
		a, b := w[0], w[1]
		for _, d := range Directions {
			if a.Step(d) == b {
				e.pos = a
				assert.True(t, e.WallFrom(d), "wall from %v towards %v", a, b)
			}
			if b.Step(d) == a {
				e.pos = b
				assert.True(t, e.WallFrom(d), "wall from %v towards %v", b, a)
			}
		}
	}

	e.pos = Cell{Row: 0, Col: 0}
	assert.True(t, e.WallFromRight())
	assert.False(t, e.FreeFromRight())
	e.pos = Cell{Row: 0, Col: 1}
	assert.True(t, e.WallFromLeft())
	e.pos = Cell{Row: 1, Col: 1}
	assert.True(t, e.WallFromDown())
	e.pos = Cell{Row: 2, Col: 1}
	assert.True(t, e.WallFromUp())
	assert.True(t, e.FreeFromLeft())
}

func TestQueryMoveConsistency(t *testing.T) {
	base := openEnv(4, 3)
	base.Walls = []Wall{
		{{Row: 0, Col: 1}, {Row: 0, Col: 2}},
		{{Row: 1, Col: 0}, {Row: 2, Col: 0}},
		{{Row: 1, Col: 3}, {Row: 1, Col: 2}},
	}

	for r := 0; r < base.Height; r++ {
		for c := 0; c < base.Width; c++ {
			for _, d := range Directions {
				env := base.Clone()
				env.StartRow, env.StartCol = r, c
				e := newTestEngine(t, env)

				free := e.FreeFrom(d)
				assert.Equal(t, !free, e.WallFrom(d))

				err := e.Move(d)
				assert.Equal(t, free, err == nil, "cell (%d,%d) dir %s", r, c, d)
			}
		}
	}
}

func TestPaint_Idempotent(t *testing.T) {
	e := newTestEngine(t, openEnv(2, 2))

	assert.True(t, e.CellIsUnpainted())
	require.NoError(t, e.Paint())
	assert.True(t, e.CellIsPainted())
	require.NoError(t, e.Paint())
	assert.True(t, e.CellIsPainted())
	assert.False(t, e.CellIsUnpainted())
	assert.Equal(t, 2, e.ActionsDone())
	assert.Len(t, e.PaintedCells(), 1)
}

func TestResetEnv_RestoresDescriptor(t *testing.T) {
	env := openEnv(3, 3)
	env.StartRow, env.StartCol = 1, 1
	env.PaintedCells = []Cell{{Row: 0, Col: 0}, {Row: 2, Col: 2}}
	e := newTestEngine(t, env)

	require.NoError(t, e.Paint())
	require.NoError(t, e.Right())
	require.NoError(t, e.Paint())
	require.NoError(t, e.Up())

	e.ResetEnv()
	assert.Equal(t, Cell{Row: 1, Col: 1}, e.Position())
	assert.Equal(t, env.PaintedCells, e.PaintedCells())
	assert.Equal(t, 0, e.ActionsDone())
	assert.True(t, e.CellIsUnpainted())

	// Idempotent
	e.ResetEnv()
	assert.Equal(t, Cell{Row: 1, Col: 1}, e.Position())
	assert.Equal(t, env.PaintedCells, e.PaintedCells())
}

func TestResetEnv_PicksUpUpdatedEnv(t *testing.T) {
	env := openEnv(3, 3)
	e := newTestEngine(t, env)

	env.StartRow = 2
	env.Walls = []Wall{{{Row: 2, Col: 0}, {Row: 2, Col: 1}}}
	require.NoError(t, e.SetEnv(env))
	e.ResetEnv()

	assert.Equal(t, Cell{Row: 2, Col: 0}, e.Position())
	assert.True(t, e.WallFromRight())
}

func TestEngine_OwnsItsEnv(t *testing.T) {
	env := openEnv(3, 3)
	env.Walls = []Wall{{{Row: 0, Col: 0}, {Row: 0, Col: 1}}}
	e := newTestEngine(t, env)

	// Caller edits after New never reach the engine, even invalid ones.
	env.StartRow = 2
	env.Walls[0] = Wall{{Row: 0, Col: 0}}
	env.Walls = append(env.Walls, Wall{{Row: 1, Col: 1}})

	require.NotPanics(t, e.ResetEnv)
	assert.Equal(t, Cell{Row: 0, Col: 0}, e.Position())
	assert.True(t, e.WallFromRight())

	got := e.Env()
	got.Walls = nil
	e.ResetEnv()
	assert.True(t, e.WallFromRight())
}

func TestActionLimit(t *testing.T) {
	t.Run("fourth move exceeds", func(t *testing.T) {
		e := newTestEngine(t, openEnv(5, 1), WithActionLimit(3))

		require.NoError(t, e.Right())
		require.NoError(t, e.Right())
		require.NoError(t, e.Right())

		err := e.Right()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrActionLimit))
		assert.Equal(t, Cell{Row: 0, Col: 4}, e.Position())
		assert.Equal(t, 4, e.ActionsDone())
	})

	t.Run("fourth paint still marks", func(t *testing.T) {
		e := newTestEngine(t, openEnv(5, 1), WithActionLimit(3))

		require.NoError(t, e.Right())
		require.NoError(t, e.Right())
		require.NoError(t, e.Right())

		err := e.Paint()
		assert.True(t, errors.Is(err, ErrActionLimit))
		assert.True(t, e.CellIsPainted())
	})

	t.Run("callback fires before overrun", func(t *testing.T) {
		var names []string
		env := openEnv(2, 1)
		env.Action = func(name string) { names = append(names, name) }
		e := newTestEngine(t, env, WithActionLimit(1))

		require.NoError(t, e.Paint())
		err := e.Right()
		assert.True(t, errors.Is(err, ErrActionLimit))
		assert.Equal(t, []string{"paint", "right"}, names)
	})

	t.Run("unbounded", func(t *testing.T) {
		e := newTestEngine(t, openEnv(2, 1), WithActionLimit(0))
		for i := 0; i < 500; i++ {
			require.NoError(t, e.Paint())
		}
		assert.Equal(t, Unbounded, e.ActionLimit())
	})

	t.Run("queries do not count", func(t *testing.T) {
		e := newTestEngine(t, openEnv(2, 2), WithActionLimit(1))
		for i := 0; i < 10; i++ {
			e.CellIsPainted()
			e.WallFromUp()
			e.FreeFromDown()
		}
		assert.Equal(t, 0, e.ActionsDone())
		assert.NoError(t, e.Down())
	})
}

func TestCrash_IsTerminalUntilReset(t *testing.T) {
	var calls int
	env := openEnv(2, 2)
	env.Action = func(string) { calls++ }
	e := newTestEngine(t, env)

	err := e.Up()
	require.True(t, errors.Is(err, ErrIllegalMove))
	assert.Equal(t, 0, e.ActionsDone())
	assert.Equal(t, 0, calls)

	// Further actions report the same crash and do nothing
	assert.Equal(t, err, e.Down())
	assert.Equal(t, err, e.Paint())
	assert.Equal(t, Cell{Row: 0, Col: 0}, e.Position())
	assert.True(t, e.CellIsUnpainted())
	assert.True(t, e.FreeFromDown())

	state := e.State()
	assert.True(t, state.Crashed)
	assert.Equal(t, "an attempt to walk through a wall", state.CrashReason)

	e.ResetEnv()
	assert.NoError(t, e.Crashed())
	assert.NoError(t, e.Down())
	assert.Equal(t, 1, calls)
}

func TestCallbackReceivesActionNames(t *testing.T) {
	var names []string
	env := openEnv(2, 2)
	env.Action = func(name string) { names = append(names, name) }
	e := newTestEngine(t, env)

	require.NoError(t, e.Right())
	require.NoError(t, e.Down())
	require.NoError(t, e.Left())
	require.NoError(t, e.Up())
	require.NoError(t, e.Paint())

	assert.Equal(t, []string{ActionRight, ActionDown, ActionLeft, ActionUp, ActionPaint}, names)
}

func TestMove_UnknownDirection(t *testing.T) {
	e := newTestEngine(t, openEnv(2, 2))

	err := e.Move("diagonal")
	assert.True(t, errors.Is(err, ErrBadCall))
	assert.NoError(t, e.Crashed())
	assert.Equal(t, 0, e.ActionsDone())
}

func TestSetEnv(t *testing.T) {
	e := newTestEngine(t, openEnv(2, 2))
	require.NoError(t, e.Right())

	bad := openEnv(0, 2)
	assert.Error(t, e.SetEnv(bad))
	assert.Equal(t, Cell{Row: 0, Col: 1}, e.Position())

	next := openEnv(4, 4)
	next.StartRow, next.StartCol = 3, 3
	require.NoError(t, e.SetEnv(next))
	assert.Equal(t, Cell{Row: 3, Col: 3}, e.Position())
	assert.Equal(t, 0, e.ActionsDone())
	assert.NotSame(t, next, e.Env())
	assert.Equal(t, 4, e.Env().Width)

	next.Width = 1
	e.ResetEnv()
	assert.Equal(t, Cell{Row: 3, Col: 3}, e.Position())
}

func TestNonAdjacentWallOnlyBlocksThatPair(t *testing.T) {
	env := openEnv(3, 3)
	env.Walls = []Wall{{{Row: 0, Col: 0}, {Row: 2, Col: 2}}}
	e := newTestEngine(t, env)

	assert.True(t, e.Blocked(Cell{Row: 0, Col: 0}, Cell{Row: 2, Col: 2}))
	assert.True(t, e.Blocked(Cell{Row: 2, Col: 2}, Cell{Row: 0, Col: 0}))
	assert.True(t, e.FreeFromRight())
	assert.True(t, e.FreeFromDown())
}

func TestState_Snapshot(t *testing.T) {
	e := newTestEngine(t, createTestEnv(), WithActionLimit(7))
	require.NoError(t, e.Down())
	require.NoError(t, e.Paint())

	state := e.State()
	assert.Equal(t, 3, state.Width)
	assert.Equal(t, 2, state.Height)
	assert.Equal(t, Cell{Row: 1, Col: 0}, state.Position)
	assert.Equal(t, []Cell{{Row: 1, Col: 0}, {Row: 1, Col: 2}}, state.PaintedCells)
	assert.Equal(t, 2, state.ActionsDone)
	assert.Equal(t, 7, state.ActionLimit)
	assert.False(t, state.Crashed)
}
