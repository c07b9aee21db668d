package scoreboard

import (
	"context"
	"time"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
)

// PostgresStore keeps every score in the score table.
type PostgresStore struct {
	repo *repository.Queries
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db repository.DBTX) *PostgresStore {
	return &PostgresStore{repo: repository.New(db)}
}

func (s *PostgresStore) Insert(ctx context.Context, score Score) (int, error) {
	rank, err := s.repo.InsertScore(ctx, repository.InsertScoreParams{
		Name:       score.Name,
		Difficulty: score.Difficulty.String(),
		ElapsedMs:  score.Elapsed.Milliseconds(),
	})
	if err != nil {
		return mines.NotRanked, err
	}
	return rank, nil
}

func (s *PostgresStore) Top(ctx context.Context, difficulty mines.Difficulty, limit int) ([]Score, error) {
	rows, err := s.repo.TopScores(ctx, difficulty.String(), limit)
	if err != nil {
		return nil, err
	}
	scores := make([]Score, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, Score{
			Name:       row.Name,
			Difficulty: difficulty,
			Elapsed:    time.Duration(row.ElapsedMs) * time.Millisecond,
		})
	}
	return scores, nil
}
