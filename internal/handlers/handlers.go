package handlers

import (
	"encoding/json"
	"iter"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, v any) {
	if _, err := SendJSON(w, v); err != nil {
		log.WithError(err).Error("unable to send response")
	}
}

type ErrorDTO struct {
	Error string `json:"error"`
	Line  *int   `json:"line,omitempty"`
}

func sendError(w http.ResponseWriter, log logrus.FieldLogger, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := SendJSON(w, ErrorDTO{Error: err.Error()}); err != nil {
		log.WithError(err).Error("unable to send error")
	}
}

func internalError(w http.ResponseWriter, log logrus.FieldLogger, msg string, err error) {
	log.WithError(err).Error(msg)
	w.WriteHeader(http.StatusInternalServerError)
}

// byPiece splits s around sep, yielding every piece with its index.
func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i++
		}
	}
}
