// Package input turns pointer events on a laid-out screen into calls on
// independently optional handlers. Nothing here knows how widgets are drawn.
package input

import (
	"image"

	"github.com/vancomm/sweeper/internal/mines"
)

// Handlers holds the callbacks a widget supports. Any of them may be nil.
// held is the set of buttons down at the time of the event.
type Handlers struct {
	OnPrimary   func(held mines.Button)
	OnSecondary func(held mines.Button)
	OnPress     func(held mines.Button)
	OnRelease   func()
}

type Widget struct {
	Bounds image.Rectangle
	Handlers
}

func (w Widget) release() {
	if w.OnRelease != nil {
		w.OnRelease()
	}
}

// Click delivers a button that went up at pt while held was still down.
// The widget is released in any case; the click handler runs only when pt
// falls inside its bounds. Click reports whether pt hit the widget.
func (w Widget) Click(pt image.Point, button, held mines.Button) bool {
	w.release()
	if !pt.In(w.Bounds) {
		return false
	}
	switch button {
	case mines.Primary:
		if w.OnPrimary != nil {
			w.OnPrimary(held)
		}
	case mines.Secondary:
		if w.OnSecondary != nil {
			w.OnSecondary(held)
		}
	}
	return true
}

// Press reports the pointer hovering at pt with held down. A primary
// press inside the bounds runs OnPress; anything else releases the widget.
func (w Widget) Press(pt image.Point, held mines.Button) bool {
	if pt.In(w.Bounds) && held&mines.Primary != 0 {
		if w.OnPress != nil {
			w.OnPress(held)
		}
		return true
	}
	w.release()
	return false
}

// Layer dispatches pointer events to a set of widgets.
type Layer []Widget

func (l Layer) Click(pt image.Point, button, held mines.Button) bool {
	hit := false
	for _, w := range l {
		if w.Click(pt, button, held) {
			hit = true
		}
	}
	return hit
}

func (l Layer) Press(pt image.Point, held mines.Button) bool {
	hit := false
	for _, w := range l {
		if w.Press(pt, held) {
			hit = true
		}
	}
	return hit
}
