package engine

// Distances returns the fewest moves from one cell to every cell reachable
// from it. Moves obey the same wall and edge rules as the robot.
func (e *Engine) Distances(from Cell) map[Cell]int {
	dist := map[Cell]int{}
	if !e.env.InBounds(from) {
		return dist
	}

	dist[from] = 0
	queue := []Cell{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range Directions {
			next := cur.Step(d)
			if _, seen := dist[next]; seen || e.Blocked(cur, next) {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// NonAdjacentWalls returns the indices of walls whose cells do not share a
// side. Such walls never block a move.
func NonAdjacentWalls(env *Env) []int {
	var idx []int
	for i, w := range env.Walls {
		if len(w) == 2 && !w[0].Adjacent(w[1]) {
			idx = append(idx, i)
		}
	}
	return idx
}
