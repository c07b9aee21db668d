package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/rooms"
)

var errNotText = errors.New("only text messages are accepted")

// Connect upgrades to a websocket that takes newline separated command
// batches. Every batch is answered with a snapshot or an error naming the
// failed line, and a running game is pushed to the client every tick.
func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	room, ok := g.room(w, r)
	if !ok {
		return
	}
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("unable to upgrade connection")
		return
	}
	log := g.log.WithFields(logrus.Fields{
		"room":   room.ID,
		"remote": r.RemoteAddr,
	})
	log.Debug("client connected")

	replies := make(chan any)
	group, ctx := errgroup.WithContext(r.Context())
	group.Go(func() error {
		defer close(replies)
		return readCommands(ctx, conn, room, log, replies)
	})
	group.Go(func() error {
		defer conn.Close()
		return g.pushUpdates(ctx, conn, room, replies)
	})
	if err := group.Wait(); err != nil {
		log.WithError(err).Warn("connection dropped")
		return
	}
	log.Debug("client disconnected")
}

func readCommands(
	ctx context.Context,
	conn *websocket.Conn,
	room *rooms.Room,
	log logrus.FieldLogger,
	replies chan<- any,
) error {
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(
				err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
			) {
				return nil
			}
			return err
		}
		if mt != websocket.TextMessage {
			return errNotText
		}

		text := strings.TrimSpace(string(message))
		log.WithField("batch", text).Trace("received")
		var line int
		snap, err := room.Do(func(s *mines.Session) error {
			var err error
			line, err = runBatch(s, text)
			return err
		})

		var reply any = GameDTO{ID: room.ID.String(), Snapshot: snap}
		if err != nil {
			reply = ErrorDTO{Error: err.Error(), Line: &line}
		}
		select {
		case replies <- reply:
		case <-ctx.Done():
			return nil
		}
	}
}

// pushUpdates owns every write to conn.
func (g GameHandler) pushUpdates(
	ctx context.Context,
	conn *websocket.Conn,
	room *rooms.Room,
	replies <-chan any,
) error {
	var tick <-chan time.Time
	if g.tickInterval > 0 {
		ticker := time.NewTicker(g.tickInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case reply, ok := <-replies:
			if !ok {
				err := conn.WriteMessage(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				)
				if errors.Is(err, websocket.ErrCloseSent) {
					return nil
				}
				return err
			}
			if err := conn.WriteJSON(reply); err != nil {
				return err
			}
		case <-tick:
			var running bool
			snap, _ := room.Do(func(s *mines.Session) error {
				running = s.Status() == mines.InProgress && s.Started()
				return nil
			})
			if !running {
				continue
			}
			if err := conn.WriteJSON(GameDTO{ID: room.ID.String(), Snapshot: snap}); err != nil {
				return err
			}
		}
	}
}
