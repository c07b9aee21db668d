package mines

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

// Layout is a serialized mine layout. Board holds one line per row, '*'
// marking a mine and '.' a safe tile.
type Layout struct {
	Board string `json:"board" yaml:"board"`
}

func (l Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Mines decodes the board into its dimensions and mine positions.
func (l Layout) Mines() (width, height int, mines []Position, err error) {
	rows := strings.Split(strings.TrimSpace(l.Board), "\n")
	height = len(rows)
	width = len(strings.TrimSpace(rows[0]))
	if width == 0 {
		return 0, 0, nil, fmt.Errorf("%w: empty board", ErrBadLayout)
	}
	for row, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != width {
			return 0, 0, nil, fmt.Errorf(
				"%w: row %d has %d tiles, want %d", ErrBadLayout, row, len(line), width,
			)
		}
		for col, c := range line {
			switch c {
			case '*':
				mines = append(mines, Pos(col, row))
			case '.':
			default:
				return 0, 0, nil, fmt.Errorf("%w: unexpected %q at %d:%d", ErrBadLayout, c, col, row)
			}
		}
	}
	return width, height, mines, nil
}

// NewFieldFromLayout builds a field with the layout's mines already placed.
func NewFieldFromLayout(l Layout) (*Field, error) {
	width, height, mines, err := l.Mines()
	if err != nil {
		return nil, err
	}
	f, err := NewField(width, height, len(mines), nil)
	if err != nil {
		return nil, err
	}
	if err := f.PlaceMinesAt(mines); err != nil {
		return nil, err
	}
	return f, nil
}

// Layout serializes the mine positions. It is empty until mines are placed.
func (f *Field) Layout() Layout {
	if !f.placed {
		return Layout{}
	}
	var b strings.Builder
	for row := range f.height {
		for col := range f.width {
			if f.tiles[col][row].mine {
				b.WriteByte('*')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return Layout{Board: b.String()}
}
