// Package rooms hosts live game sessions for concurrent clients. A room
// owns one session and serializes every call into it; the clock is driven
// by wall time.
package rooms

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
)

var ErrNotFound = errors.New("room not found")

type Room struct {
	ID uuid.UUID

	mu      sync.Mutex
	session *mines.Session
	now     func() time.Time
	last    time.Time
	touched time.Time
}

// advance feeds the wall time since the previous call into the session.
func (r *Room) advance() {
	now := r.now()
	r.session.Tick(now.Sub(r.last))
	r.last = now
	r.touched = now
}

// Do runs fn against the session after bringing its clock up to date and
// returns the resulting snapshot. A nil fn only refreshes the clock.
func (r *Room) Do(fn func(*mines.Session) error) (mines.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance()
	var err error
	if fn != nil {
		err = fn(r.session)
	}
	return r.session.Snapshot(), err
}

func (r *Room) Handle(in mines.Intent) (mines.Snapshot, error) {
	return r.Do(func(s *mines.Session) error {
		return s.Handle(in)
	})
}

func (r *Room) Snapshot() mines.Snapshot {
	snap, _ := r.Do(nil)
	return snap
}

func (r *Room) idleSince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.touched
}

type Registry struct {
	mu         sync.Mutex
	rooms      map[uuid.UUID]*Room
	ttl        time.Duration
	now        func() time.Time
	newRand    func() *rand.Rand
	scoreboard mines.Scoreboard
	log        logrus.FieldLogger
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(g *Registry) {
		g.now = now
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(g *Registry) {
		g.ttl = ttl
	}
}

func WithScoreboard(sb mines.Scoreboard) Option {
	return func(g *Registry) {
		g.scoreboard = sb
	}
}

// WithRand sets the source of randomness for every new room.
func WithRand(newRand func() *rand.Rand) Option {
	return func(g *Registry) {
		g.newRand = newRand
	}
}

func NewRegistry(log logrus.FieldLogger, opts ...Option) *Registry {
	g := &Registry{
		rooms:   make(map[uuid.UUID]*Room),
		ttl:     time.Hour,
		now:     time.Now,
		newRand: mines.NewRand,
		log:     log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Registry) Create(difficulty mines.Difficulty, name string) (*Room, error) {
	opts := []mines.Option{mines.WithRand(g.newRand())}
	if g.scoreboard != nil {
		opts = append(opts, mines.WithScoreboard(g.scoreboard))
	}
	session, err := mines.NewSession(difficulty, name, opts...)
	if err != nil {
		return nil, err
	}

	now := g.now()
	room := &Room{
		ID:      uuid.New(),
		session: session,
		now:     g.now,
		last:    now,
		touched: now,
	}

	g.mu.Lock()
	g.rooms[room.ID] = room
	g.mu.Unlock()

	g.log.WithFields(logrus.Fields{
		"room":       room.ID,
		"difficulty": difficulty,
		"name":       name,
	}).Debug("room created")
	return room, nil
}

func (g *Registry) Get(id uuid.UUID) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return room, nil
}

func (g *Registry) Remove(id uuid.UUID) {
	g.mu.Lock()
	delete(g.rooms, id)
	g.mu.Unlock()
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}

// Sweep drops rooms nobody has touched for longer than the TTL and
// reports how many went.
func (g *Registry) Sweep() int {
	deadline := g.now().Add(-g.ttl)

	g.mu.Lock()
	defer g.mu.Unlock()
	evicted := 0
	for id, room := range g.rooms {
		if room.idleSince().Before(deadline) {
			delete(g.rooms, id)
			evicted++
		}
	}
	if evicted > 0 {
		g.log.WithFields(logrus.Fields{
			"evicted": evicted,
			"left":    len(g.rooms),
		}).Info("idle rooms evicted")
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (g *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			g.Sweep()
		}
	}
}
