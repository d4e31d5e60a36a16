package engine

// Validate checks an environment for structural correctness.
// Checks run in a fixed order and the first violation is returned.
// Walls are not required to join adjacent cells.
func Validate(env *Env) error {
	if env == nil {
		return validationError(-1, "no environment")
	}
	if env.Action == nil {
		return validationError(-1, "no 'action' callback")
	}
	if env.Width < 1 {
		return validationError(-1, "wrong width")
	}
	if env.Height < 1 {
		return validationError(-1, "wrong height")
	}
	if env.StartRow < 0 || env.StartRow >= env.Height {
		return validationError(-1, "wrong startRow")
	}
	if env.StartCol < 0 || env.StartCol >= env.Width {
		return validationError(-1, "wrong startCol")
	}

	for i, c := range env.PaintedCells {
		if reason := checkCell(env, c); reason != "" {
			return validationError(i, "%s (painted cell number: %d)", reason, i)
		}
	}

	for i, w := range env.Walls {
		if len(w) != 2 {
			return validationError(i, "wrong wall, number: %d", i)
		}
		for _, c := range w {
			if reason := checkCell(env, c); reason != "" {
				return validationError(i, "%s (wall number: %d)", reason, i)
			}
		}
	}

	return nil
}

// checkCell returns a reason when c is off the grid, or "" when it is fine
func checkCell(env *Env, c Cell) string {
	if c.Row < 0 || c.Row >= env.Height {
		return "wrong cell r"
	}
	if c.Col < 0 || c.Col >= env.Width {
		return "wrong cell c"
	}
	return ""
}
