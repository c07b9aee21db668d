package input

import (
	"image"

	"github.com/vancomm/sweeper/internal/mines"
)

const (
	TileSize = 16
	Margin   = 1
	FaceSize = 24
)

// Sink receives the intents produced by a [Board].
type Sink func(mines.Intent)

// Board lays out a game screen: a face button centred above a grid of
// tiles. Every widget emits intents into the sink instead of touching a
// session.
type Board struct {
	cols, rows int
	origin     image.Point
	sink       Sink
	face       Widget
	layer      Layer
}

func NewBoard(cols, rows int, sink Sink) *Board {
	b := &Board{
		cols:   cols,
		rows:   rows,
		origin: image.Pt(Margin, FaceSize+2*Margin),
		sink:   sink,
	}

	width := cols*TileSize + 2*Margin
	faceMin := image.Pt((width-FaceSize)/2, Margin)
	b.face = Widget{
		Bounds: image.Rectangle{Min: faceMin, Max: faceMin.Add(image.Pt(FaceSize, FaceSize))},
		Handlers: Handlers{
			OnPrimary: func(mines.Button) { b.sink(mines.RestartRequested{}) },
		},
	}

	b.layer = make(Layer, 0, cols*rows+1)
	b.layer = append(b.layer, b.face)
	for col := range cols {
		for row := range rows {
			b.layer = append(b.layer, b.tileWidget(mines.Pos(col, row)))
		}
	}
	return b
}

func (b *Board) tileWidget(p mines.Position) Widget {
	corner := b.origin.Add(image.Pt(p.Col*TileSize, p.Row*TileSize))
	click := func(button mines.Button) func(mines.Button) {
		return func(held mines.Button) {
			b.sink(mines.Clicked{Pos: p, Button: button, Held: held})
		}
	}
	return Widget{
		Bounds: image.Rectangle{Min: corner, Max: corner.Add(image.Pt(TileSize, TileSize))},
		Handlers: Handlers{
			OnPrimary:   click(mines.Primary),
			OnSecondary: click(mines.Secondary),
			OnPress: func(held mines.Button) {
				b.sink(mines.Pressed{Pos: p, Held: held})
			},
		},
	}
}

// Size is the pixel size of the whole screen.
func (b *Board) Size() image.Point {
	return image.Pt(
		b.cols*TileSize+2*Margin,
		b.origin.Y+b.rows*TileSize+Margin,
	)
}

func (b *Board) Face() image.Rectangle {
	return b.face.Bounds
}

// TileAt maps a screen point to the tile under it.
func (b *Board) TileAt(pt image.Point) (mines.Position, bool) {
	d := pt.Sub(b.origin)
	if d.X < 0 || d.Y < 0 {
		return mines.Position{}, false
	}
	p := mines.Pos(d.X/TileSize, d.Y/TileSize)
	if p.Col >= b.cols || p.Row >= b.rows {
		return mines.Position{}, false
	}
	return p, true
}

// Click handles a button release at pt. The press preview is always
// dropped first.
func (b *Board) Click(pt image.Point, button, held mines.Button) bool {
	b.sink(mines.Released{})
	return b.layer.Click(pt, button, held)
}

// Press handles the pointer moving or going down at pt with held buttons.
func (b *Board) Press(pt image.Point, held mines.Button) bool {
	if b.layer.Press(pt, held) {
		return true
	}
	b.sink(mines.Released{})
	return false
}
