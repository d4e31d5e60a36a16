package engine

// Action names passed to Env.Action
const (
	ActionRight = "right"
	ActionLeft  = "left"
	ActionUp    = "up"
	ActionDown  = "down"
	ActionPaint = "paint"

	// DefaultActionLimit is the action budget used when no option overrides it
	DefaultActionLimit = 200
	// Unbounded disables the action budget
	Unbounded = 0
)

// Cell is a grid position
type Cell struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

// Wall is declared as a pair of cells; movement between them is blocked both ways.
type Wall []Cell

// Direction is one of the four movement directions
type Direction string

const (
	Right Direction = "right"
	Left  Direction = "left"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists all movement directions in a stable order
var Directions = []Direction{Right, Left, Up, Down}

// Step returns the neighbouring cell in direction d
func (c Cell) Step(d Direction) Cell {
	switch d {
	case Right:
		return Cell{Row: c.Row, Col: c.Col + 1}
	case Left:
		return Cell{Row: c.Row, Col: c.Col - 1}
	case Up:
		return Cell{Row: c.Row - 1, Col: c.Col}
	case Down:
		return Cell{Row: c.Row + 1, Col: c.Col}
	}
	return c
}

// Adjacent reports whether two cells share a side
func (c Cell) Adjacent(o Cell) bool {
	dr, dc := c.Row-o.Row, c.Col-o.Col
	return dr*dr+dc*dc == 1
}

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	switch d {
	case Right, Left, Up, Down:
		return true
	}
	return false
}

// Env describes a scenario. It is read by Validate and by Engine on every reset.
type Env struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	StartRow     int    `json:"start_row"`
	StartCol     int    `json:"start_col"`
	Walls        []Wall `json:"walls"`
	PaintedCells []Cell `json:"painted_cells"`

	// Action is notified with the action name after each mutating action.
	Action func(name string) `json:"-"`
}

// DefaultEnv returns the built-in 3x2 scenario with the robot at (1,1)
func DefaultEnv() *Env {
	return &Env{
		Width:        3,
		Height:       2,
		StartRow:     1,
		StartCol:     1,
		Walls:        []Wall{},
		PaintedCells: []Cell{},
		Action:       func(string) {},
	}
}

// Clone returns a copy of env that shares no slices with it
func (env *Env) Clone() *Env {
	if env == nil {
		return nil
	}
	c := *env
	c.Walls = make([]Wall, len(env.Walls))
	for i, w := range env.Walls {
		c.Walls[i] = append(Wall(nil), w...)
	}
	c.PaintedCells = append([]Cell{}, env.PaintedCells...)
	return &c
}

// InBounds reports whether c lies on the grid
func (env *Env) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < env.Height && c.Col >= 0 && c.Col < env.Width
}

// State is a snapshot of an engine's live state
type State struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Position     Cell   `json:"position"`
	PaintedCells []Cell `json:"painted_cells"`
	ActionsDone  int    `json:"actions_done"`
	ActionLimit  int    `json:"action_limit"`
	Crashed      bool   `json:"crashed"`
	CrashReason  string `json:"crash_reason,omitempty"`
}
