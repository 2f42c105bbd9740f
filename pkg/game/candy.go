package game

import (
	"fmt"

	"github.com/trytobebee/candysnake/pkg/config"
)

// spawnCandy places a new candy on a free cell.
func (g *Game) spawnCandy() error {
	candy, err := placeCandy(g.boardSize, g.occupied, g.candy, g.rng)
	if err != nil {
		return err
	}
	g.candy = &candy
	return nil
}

// placeCandy picks a cell uniformly among those holding neither a snake
// segment nor the current candy, then a flavor uniformly from the palette.
func placeCandy(boardSize int, occupied map[int]struct{}, current *Candy, rng Rand) (Candy, error) {
	total := boardSize * boardSize
	free := make([]int, 0, total-len(occupied))
	for cell := 0; cell < total; cell++ {
		if _, taken := occupied[cell]; taken {
			continue
		}
		if current != nil && current.Cell == cell {
			continue
		}
		free = append(free, cell)
	}
	if len(free) == 0 {
		return Candy{}, fmt.Errorf("place candy on %dx%d board: %w", boardSize, boardSize, ErrBoardFull)
	}

	return Candy{
		Cell:   free[rng.Intn(len(free))],
		Flavor: Flavor(rng.Intn(len(config.CandyEmojis))),
	}, nil
}

// Emoji returns the glyph for the candy.
func (c Candy) Emoji() string {
	return c.Flavor.Emoji()
}
