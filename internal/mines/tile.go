package mines

import "fmt"

type Position struct {
	Col int `json:"x"`
	Row int `json:"y"`
}

func Pos(col, row int) Position {
	return Position{Col: col, Row: row}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Col, p.Row)
}

// Tile is a single cell of a [Field]. Tiles are plain values; all changes
// go through the owning Field.
type Tile struct {
	Pos   Position
	State TileState
	mine  bool
}

func (t Tile) IsMine() bool {
	return t.mine
}

func (t Tile) Hidden() bool {
	return t.State == Hidden
}

func (t Tile) Flagged() bool {
	return t.State == Flagged
}

func comparePositions(a, b Position) int {
	if a.Col != b.Col {
		return a.Col - b.Col
	}
	return a.Row - b.Row
}
