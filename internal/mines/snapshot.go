package mines

import (
	"fmt"
	"slices"
	"time"
)

// Snapshot is a read-only copy of a session, safe to hand to a renderer
// running on another goroutine.
type Snapshot struct {
	Difficulty     Difficulty `json:"difficulty"`
	Name           string     `json:"name"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	MineCount      int        `json:"mine_count"`
	Flags          int        `json:"flags"`
	MinesRemaining int        `json:"mines_remaining"`
	Grid           Grid       `json:"grid"`
	Pending        []Position `json:"pending,omitempty"`
	Status         Status     `json:"status"`
	Face           Face       `json:"face"`
	ElapsedMs      int64      `json:"elapsed_ms"`
	Clock          string     `json:"clock"`
	Rank           *int       `json:"rank,omitempty"`
	Layout         *Layout    `json:"layout,omitempty"` // once the game is over
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Difficulty:     s.difficulty,
		Name:           s.name,
		Width:          s.field.Width(),
		Height:         s.field.Height(),
		MineCount:      s.field.MineCount(),
		Flags:          s.field.FlagCount(),
		MinesRemaining: s.MinesRemaining(),
		Grid:           s.field.Grid(),
		Status:         s.status,
		Face:           s.Face(),
		ElapsedMs:      s.elapsed.Milliseconds(),
		Clock:          FormatClock(s.elapsed, s.started),
	}
	s.pending.Each(func(p Position) {
		snap.Pending = append(snap.Pending, p)
	})
	slices.SortFunc(snap.Pending, comparePositions)
	if s.status != InProgress {
		layout := s.field.Layout()
		snap.Layout = &layout
	}
	if s.status == Won && s.rank != NotRanked {
		rank := s.rank
		snap.Rank = &rank
	}
	return snap
}

// FormatClock renders d as mm:ss, or --:-- for a clock that has not
// started.
func FormatClock(d time.Duration, started bool) string {
	if !started {
		return "--:--"
	}
	seconds := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
