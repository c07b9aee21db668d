package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/rooms"
	"github.com/vancomm/sweeper/internal/scoreboard"
)

type GameHandler struct {
	log          logrus.FieldLogger
	rooms        *rooms.Registry
	upgrader     *websocket.Upgrader
	tickInterval time.Duration
}

func NewGameHandler(
	log logrus.FieldLogger,
	registry *rooms.Registry,
	upgrader *websocket.Upgrader,
	tickInterval time.Duration,
) *GameHandler {
	return &GameHandler{
		log:          log,
		rooms:        registry,
		upgrader:     upgrader,
		tickInterval: tickInterval,
	}
}

// statusFor maps engine errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mines.ErrOutOfBounds), errors.Is(err, ErrBadCommand):
		return http.StatusBadRequest
	case errors.Is(err, mines.ErrInvalidOperation):
		return http.StatusConflict
	case errors.Is(err, rooms.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (g GameHandler) room(w http.ResponseWriter, r *http.Request) (*rooms.Room, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return nil, false
	}
	room, err := g.rooms.Get(id)
	if err != nil {
		sendError(w, g.log, statusFor(err), err)
		return nil, false
	}
	return room, true
}

func (g GameHandler) reply(w http.ResponseWriter, room *rooms.Room, snap mines.Snapshot, err error) {
	if err != nil {
		sendError(w, g.log, statusFor(err), err)
		return
	}
	sendJSONOrLog(w, g.log, GameDTO{ID: room.ID.String(), Snapshot: snap})
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	difficulty, name, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	if claims, ok := middleware.PlayerClaims(r.Context()); ok && name == "" {
		name = claims.Username
	}
	name = scoreboard.TruncateName(name)

	room, err := g.rooms.Create(difficulty, name)
	if err != nil {
		internalError(w, g.log, "unable to create a room", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	g.reply(w, room, room.Snapshot(), nil)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	room, ok := g.room(w, r)
	if !ok {
		return
	}
	g.reply(w, room, room.Snapshot(), nil)
}

// click returns a handler that clicks button at ?x=&y= with held down.
func (g GameHandler) click(button, held mines.Button) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, err := ParsePosition(r.URL.Query())
		if err != nil {
			sendError(w, g.log, http.StatusBadRequest, err)
			return
		}
		room, ok := g.room(w, r)
		if !ok {
			return
		}
		snap, err := room.Handle(mines.Clicked{Pos: pos, Button: button, Held: held})
		g.reply(w, room, snap, err)
	}
}

func (g GameHandler) Open() http.HandlerFunc {
	return g.click(mines.Primary, 0)
}

func (g GameHandler) Flag() http.HandlerFunc {
	return g.click(mines.Secondary, 0)
}

func (g GameHandler) Chord(w http.ResponseWriter, r *http.Request) {
	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	room, ok := g.room(w, r)
	if !ok {
		return
	}
	snap, err := room.Do(func(s *mines.Session) error {
		return s.Chord(pos)
	})
	g.reply(w, room, snap, err)
}

func (g GameHandler) Press(w http.ResponseWriter, r *http.Request) {
	pos, held, err := ParsePress(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	room, ok := g.room(w, r)
	if !ok {
		return
	}
	snap, err := room.Handle(mines.Pressed{Pos: pos, Held: held})
	g.reply(w, room, snap, err)
}

func (g GameHandler) Release(w http.ResponseWriter, r *http.Request) {
	room, ok := g.room(w, r)
	if !ok {
		return
	}
	snap, err := room.Handle(mines.Released{})
	g.reply(w, room, snap, err)
}

func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	room, ok := g.room(w, r)
	if !ok {
		return
	}
	snap, err := room.Handle(mines.RestartRequested{})
	g.reply(w, room, snap, err)
}
