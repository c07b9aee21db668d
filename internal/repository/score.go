package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type Score struct {
	ScoreId    int64              `db:"score_id"`
	Name       string             `db:"name"`
	Difficulty string             `db:"difficulty"`
	ElapsedMs  int64              `db:"elapsed_ms"`
	CreatedAt  pgtype.Timestamptz `db:"created_at"`
}

type InsertScoreParams struct {
	Name       string
	Difficulty string
	ElapsedMs  int64
}

// InsertScore stores a score and returns how many scores of the same
// difficulty were already at least as fast.
func (q *Queries) InsertScore(ctx context.Context, params InsertScoreParams) (int, error) {
	var rank int64
	err := q.db.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO score (name, difficulty, elapsed_ms)
			VALUES (@name, @difficulty, @elapsed_ms)
			RETURNING difficulty, elapsed_ms
		)
		SELECT count(s.score_id)
		FROM inserted i
			LEFT JOIN score s
				ON s.difficulty = i.difficulty AND s.elapsed_ms <= i.elapsed_ms`,
		pgx.NamedArgs{
			"name":       params.Name,
			"difficulty": params.Difficulty,
			"elapsed_ms": params.ElapsedMs,
		},
	).Scan(&rank)
	return int(rank), err
}

// TopScores lists the fastest scores; a negative limit lists them all.
func (q *Queries) TopScores(ctx context.Context, difficulty string, limit int) ([]Score, error) {
	var limitArg any = limit
	if limit < 0 {
		limitArg = nil
	}
	rows, err := q.db.Query(ctx, `
		SELECT score_id, name, difficulty, elapsed_ms, created_at
		FROM score
		WHERE difficulty = @difficulty
		ORDER BY elapsed_ms, score_id
		LIMIT @limit`,
		pgx.NamedArgs{
			"difficulty": difficulty,
			"limit":      limitArg,
		},
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Score])
}
