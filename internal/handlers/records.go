package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/scoreboard"
)

type RecordsHandler struct {
	log   logrus.FieldLogger
	store scoreboard.Store
}

func NewRecordsHandler(log logrus.FieldLogger, store scoreboard.Store) *RecordsHandler {
	return &RecordsHandler{log: log, store: store}
}

// Records lists the fastest times of one difficulty. A zero limit means
// the top five, a negative one the whole table.
func (h RecordsHandler) Records(w http.ResponseWriter, r *http.Request) {
	var dto RecordsDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	difficulty := mines.Beginner
	if dto.Difficulty != "" {
		var err error
		if difficulty, err = mines.ParseDifficulty(dto.Difficulty); err != nil {
			sendError(w, h.log, http.StatusBadRequest, err)
			return
		}
	}
	if dto.Limit == 0 {
		dto.Limit = scoreboard.TopScores
	}

	scores, err := h.store.Top(r.Context(), difficulty, dto.Limit)
	if err != nil {
		internalError(w, h.log, "unable to fetch records", err)
		return
	}
	records := make([]RecordDTO, len(scores))
	for i, score := range scores {
		records[i] = RecordDTO{
			Rank:       i,
			Name:       score.Name,
			Difficulty: score.Difficulty,
			ElapsedMs:  score.Elapsed.Milliseconds(),
			Clock:      mines.FormatClock(score.Elapsed, true),
		}
	}
	sendJSONOrLog(w, h.log, records)
}
