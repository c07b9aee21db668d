package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type TileState int8

const (
	Hidden  TileState = -2
	Flagged TileState = -1
	/*
	 * 0 to 8 mean the tile is uncovered and carry its adjacent mine
	 * count. Values from 64 up only appear once the game is over.
	 */
	RevealedMine  TileState = 64
	ExplodedMine  TileState = 65
	IncorrectFlag TileState = 66
)

// Uncovered returns the state of an uncovered tile with n adjacent mines.
func Uncovered(n int) TileState {
	if n < 0 || n > 8 {
		panic(AssertionError{fmt.Sprintf("adjacent mine count %d out of range", n)})
	}
	return TileState(n)
}

// Count reports the adjacent mine count of an uncovered tile.
func (s TileState) Count() (n int, ok bool) {
	if 0 <= s && s <= 8 {
		return int(s), true
	}
	return 0, false
}

func (s TileState) IsUncovered() bool {
	_, ok := s.Count()
	return ok
}

func (s TileState) String() string {
	switch s {
	case Hidden:
		return " "
	case Flagged:
		return "*"
	case 0:
		return "."
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	case RevealedMine:
		return "o"
	case ExplodedMine:
		return "X"
	case IncorrectFlag:
		return "x"
	default:
		return "!"
	}
}

// Grid is a column-major view of tile states: g[col][row].
type Grid [][]TileState

func (g Grid) String() string {
	if len(g) == 0 {
		return ""
	}
	var b strings.Builder
	for row := range len(g[0]) {
		for col := range len(g) {
			fmt.Fprint(&b, g[col][row].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
