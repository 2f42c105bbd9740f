package game

import "math"

// Autopilot steers toward the candy along the shortest free path, preferring
// moves that leave at least a snake's length of reachable space.
type Autopilot struct{}

var searchOrder = []Direction{DirUp, DirRight, DirDown, DirLeft}

func (Autopilot) NextDirection(g *Game) Direction {
	if g.Status() != StatusRunning {
		return DirNone
	}

	head := g.Head()
	candy, hasCandy := g.CandyCell()

	best := DirNone
	bestRoomy := false
	bestDist := math.MaxInt
	bestSpace := -1

	for _, dir := range searchOrder {
		if dir.IsOpposite(g.Direction()) {
			continue
		}
		next, ok := g.neighbor(head, dir)
		if !ok || g.Occupied(next) {
			continue
		}

		space := g.countReachableSpace(next)
		roomy := space >= len(g.snake)
		dist := math.MaxInt
		if hasCandy {
			dist = g.pathLength(next, candy)
		}

		var better bool
		switch {
		case best == DirNone:
			better = true
		case roomy != bestRoomy:
			better = roomy
		case dist != bestDist:
			better = dist < bestDist
		default:
			better = space > bestSpace
		}
		if better {
			best, bestRoomy, bestDist, bestSpace = dir, roomy, dist, space
		}
	}
	return best
}

// neighbor returns the cell one move away, or false when the move leaves the
// board.
func (g *Game) neighbor(cell int, dir Direction) (int, bool) {
	if g.wrapsHorizontally(cell, dir) {
		return 0, false
	}
	next := cell + dir.Delta(g.boardSize)
	if next < 0 || next >= g.boardSize*g.boardSize {
		return 0, false
	}
	return next, true
}

// countReachableSpace flood-fills the free cells connected to start.
func (g *Game) countReachableSpace(start int) int {
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		for _, dir := range searchOrder {
			next, ok := g.neighbor(cell, dir)
			if !ok || seen[next] || g.Occupied(next) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return len(seen)
}

// pathLength is the number of moves from one free cell to another, or
// math.MaxInt when the target cannot be reached.
func (g *Game) pathLength(from, to int) int {
	if from == to {
		return 0
	}
	dist := map[int]int{from: 0}
	queue := []int{from}
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		for _, dir := range searchOrder {
			next, ok := g.neighbor(cell, dir)
			if !ok || g.Occupied(next) {
				continue
			}
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cell] + 1
			if next == to {
				return dist[next]
			}
			queue = append(queue, next)
		}
	}
	return math.MaxInt
}
