package game

// Controller defines the brain that steers the snake when the player does not
type Controller interface {
	NextDirection(g *Game) Direction
}
