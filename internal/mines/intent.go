package mines

import (
	"fmt"
	"time"
)

type Button uint8

const (
	Primary Button = 1 << iota
	Secondary

	Both = Primary | Secondary
)

// Intent is an input event addressed to a [Session]. Presentation code
// emits intents instead of touching the field directly.
type Intent interface {
	intent()
}

// Clicked is a button released over a tile while Held is still down.
type Clicked struct {
	Pos    Position
	Button Button
	Held   Button
}

type Pressed struct {
	Pos  Position
	Held Button
}

type Released struct{}

type RestartRequested struct{}

type Ticked struct {
	Dt time.Duration
}

func (Clicked) intent()          {}
func (Pressed) intent()          {}
func (Released) intent()         {}
func (RestartRequested) intent() {}
func (Ticked) intent()           {}

func (s *Session) Handle(in Intent) error {
	switch in := in.(type) {
	case Clicked:
		switch in.Button {
		case Primary:
			return s.LeftClick(in.Pos, in.Held&Secondary != 0)
		case Secondary:
			return s.RightClick(in.Pos, in.Held&Primary != 0)
		default:
			return fmt.Errorf("%w: unknown button %d", ErrInvalidOperation, in.Button)
		}
	case Pressed:
		s.Press(in.Pos, in.Held)
	case Released:
		s.Release()
	case RestartRequested:
		s.Restart()
	case Ticked:
		s.Tick(in.Dt)
	default:
		return fmt.Errorf("%w: unknown intent %T", ErrInvalidOperation, in)
	}
	return nil
}
