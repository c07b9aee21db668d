package scoreboard

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
)

const (
	MaxNameLength = 6
	TopScores     = 5
)

type Score struct {
	Name       string
	Difficulty mines.Difficulty
	Elapsed    time.Duration
}

// Store keeps completion times per difficulty, fastest first. Insert
// returns the 0-based position the new score took; equal times rank after
// the ones already stored.
type Store interface {
	Insert(ctx context.Context, score Score) (rank int, err error)
	Top(ctx context.Context, difficulty mines.Difficulty, limit int) ([]Score, error)
}

func TruncateName(name string) string {
	name = strings.TrimSpace(name)
	runes := []rune(name)
	if len(runes) > MaxNameLength {
		runes = runes[:MaxNameLength]
	}
	return string(runes)
}

// Recorder feeds won games into a [Store]. It implements
// [mines.Scoreboard]: storage failures are logged and reported as
// [mines.NotRanked] so the game itself carries on.
type Recorder struct {
	store   Store
	log     logrus.FieldLogger
	timeout time.Duration
}

var _ mines.Scoreboard = (*Recorder)(nil)

func NewRecorder(store Store, log logrus.FieldLogger, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{store: store, log: log, timeout: timeout}
}

func (r *Recorder) RecordScore(elapsed time.Duration, difficulty mines.Difficulty, name string) int {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	score := Score{
		Name:       TruncateName(name),
		Difficulty: difficulty,
		Elapsed:    elapsed,
	}
	rank, err := r.store.Insert(ctx, score)
	if err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"difficulty": difficulty,
			"name":       score.Name,
			"elapsed":    elapsed,
		}).Error("unable to record score")
		return mines.NotRanked
	}

	r.log.WithFields(logrus.Fields{
		"difficulty": difficulty,
		"name":       score.Name,
		"rank":       rank,
	}).Info("score recorded")
	return rank
}
