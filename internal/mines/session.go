package mines

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

var Log = logrus.New()

type Status int8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("status(%d)", int8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Face int8

const (
	Happy Face = iota
	Shocked
	Lose
	Win
)

func (f Face) String() string {
	switch f {
	case Shocked:
		return "shocked"
	case Lose:
		return "lose"
	case Win:
		return "win"
	default:
		return "happy"
	}
}

func (f Face) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// NotRanked is the rank of a score that did not make it into the table,
// or could not be stored.
const NotRanked = -1

type Scoreboard interface {
	RecordScore(elapsed time.Duration, difficulty Difficulty, name string) (rank int)
}

// Session is one player's game: a [Field] plus the win/loss state machine
// and the clock. A Session is not safe for concurrent use.
type Session struct {
	field      *Field
	difficulty Difficulty
	name       string
	status     Status
	started    bool
	elapsed    time.Duration
	rank       int
	pending    mapset.Set[Position]
	scoreboard Scoreboard
	rnd        *rand.Rand
}

type Option func(*Session)

func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.rnd = r
	}
}

func WithScoreboard(sb Scoreboard) Option {
	return func(s *Session) {
		s.scoreboard = sb
	}
}

func NewSession(difficulty Difficulty, name string, opts ...Option) (*Session, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown %v", ErrBadParams, difficulty)
	}
	s := &Session{
		difficulty: difficulty,
		name:       name,
		rank:       NotRanked,
		pending:    mapset.New[Position](),
	}
	for _, opt := range opts {
		opt(s)
	}

	width, height, mineCount := difficulty.Params().Unpack()
	field, err := NewField(width, height, mineCount, s.rnd)
	if err != nil {
		return nil, err
	}
	s.field = field
	return s, nil
}

func (s *Session) Field() *Field { return s.field }
func (s *Session) Difficulty() Difficulty { return s.difficulty }
func (s *Session) Name() string { return s.name }
func (s *Session) Status() Status { return s.status }
func (s *Session) Elapsed() time.Duration { return s.elapsed }
func (s *Session) Rank() int { return s.rank }
func (s *Session) MineCount() int { return s.field.MineCount() }
func (s *Session) FlagCount() int { return s.field.FlagCount() }
func (s *Session) TileState(p Position) TileState { return s.field.At(p).State }

// MinesRemaining is the counter shown to the player. It goes negative when
// there are more flags than mines.
func (s *Session) MinesRemaining() int {
	return s.field.MineCount() - s.field.FlagCount()
}

func (s *Session) Face() Face {
	switch {
	case s.status == Won:
		return Win
	case s.status == Lost:
		return Lose
	case s.pending.Size() > 0:
		return Shocked
	default:
		return Happy
	}
}

func (s *Session) check(p Position) error {
	if s.status != InProgress {
		return ErrGameOver
	}
	if !s.field.InBounds(p) {
		return ErrOutOfBounds
	}
	return nil
}

// LeftClick uncovers p, or chords on it when the secondary button is held
// as well.
func (s *Session) LeftClick(p Position, secondaryHeld bool) error {
	if err := s.check(p); err != nil {
		return err
	}
	if secondaryHeld {
		return s.Chord(p)
	}
	reveal, err := s.field.Uncover(p)
	if err != nil {
		return err
	}
	s.apply(p, reveal)
	return nil
}

// RightClick toggles the flag on p, or chords on it when the primary
// button is held as well.
func (s *Session) RightClick(p Position, primaryHeld bool) error {
	if err := s.check(p); err != nil {
		return err
	}
	if primaryHeld {
		return s.Chord(p)
	}
	return s.field.ToggleFlag(p)
}

// Chord opens every hidden neighbour of an uncovered number once the
// number of adjacent flags matches it. Nothing happens while the flag
// count differs.
func (s *Session) Chord(p Position) error {
	if err := s.check(p); err != nil {
		return err
	}
	required, ok := s.field.At(p).State.Count()
	if !ok {
		return fmt.Errorf("%w: cannot chord on covered tile %v", ErrInvalidOperation, p)
	}
	eligible, targets := s.field.ChordCandidates(p, required)
	if !eligible {
		return nil
	}

	for _, q := range targets {
		if s.field.At(q).IsMine() {
			reveal, err := s.field.Uncover(q)
			if err != nil {
				return err
			}
			s.apply(q, reveal)
			return nil
		}
	}

	for _, q := range targets {
		// an earlier target may have flooded over this one
		if !s.field.At(q).Hidden() {
			continue
		}
		reveal, err := s.field.Uncover(q)
		if err != nil {
			return err
		}
		s.apply(q, reveal)
		if s.status != InProgress {
			break
		}
	}
	return nil
}

func (s *Session) apply(p Position, reveal Reveal) {
	s.started = true
	switch {
	case reveal.Outcome == HitMine:
		s.lose(p)
	case reveal.Won:
		s.win()
	}
}

func (s *Session) lose(p Position) {
	s.status = Lost
	s.Release()
	s.field.RevealAllMines()
	s.field.MarkIncorrectFlags()
	Log.WithFields(logrus.Fields{
		"difficulty": s.difficulty,
		"mine":       p,
		"elapsed":    s.elapsed,
	}).Debug("game lost")
}

func (s *Session) win() {
	s.status = Won
	s.Release()
	s.rank = NotRanked
	if s.scoreboard != nil {
		s.rank = s.scoreboard.RecordScore(s.elapsed, s.difficulty, s.name)
	}
	Log.WithFields(logrus.Fields{
		"difficulty": s.difficulty,
		"name":       s.name,
		"elapsed":    s.elapsed,
		"rank":       s.rank,
	}).Debug("game won")
}

// Restart starts a fresh round with the same difficulty and player.
func (s *Session) Restart() {
	s.field.Reset()
	s.status = InProgress
	s.started = false
	s.elapsed = 0
	s.rank = NotRanked
	s.Release()
}

// Started reports whether the first tile has been uncovered.
func (s *Session) Started() bool {
	return s.started
}

// Tick advances the clock by dt once the first tile has been uncovered and
// until the game ends. It also drops any press highlight.
func (s *Session) Tick(dt time.Duration) {
	s.Release()
	if s.status != InProgress || !s.started || dt <= 0 {
		return
	}
	s.elapsed += dt
}

// Press highlights the tiles a click at p would act on: the tile itself
// for a primary press on a hidden tile, or the chord targets when both
// buttons are held on an uncovered number.
func (s *Session) Press(p Position, held Button) {
	s.Release()
	if s.check(p) != nil {
		return
	}
	state := s.field.At(p).State
	switch {
	case held&Both == Both:
		if n, ok := state.Count(); ok {
			_, targets := s.field.ChordCandidates(p, n)
			for _, q := range targets {
				s.pending.Put(q)
			}
		}
	case held&Primary != 0 && state == Hidden:
		s.pending.Put(p)
	}
}

func (s *Session) Release() {
	s.pending = mapset.New[Position]()
}

func (s *Session) Pending(p Position) bool {
	return s.pending.Has(p)
}
