package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/rooms"
	"github.com/vancomm/sweeper/internal/scoreboard"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	cfg     *config.Config
	log     logrus.FieldLogger
	router  *http.ServeMux
	db      *pgxpool.Pool
	store   scoreboard.Store
	rooms   *rooms.Registry
	cookies *config.Cookies
}

func New(cfg *config.Config, log logrus.FieldLogger) *App {
	return &App{
		cfg:    cfg,
		log:    log,
		router: http.NewServeMux(),
	}
}

// Setup connects the configured backends and registers the routes. Player
// accounts need both Postgres and a JWT key pair; without them everyone
// plays anonymously.
func (a *App) Setup(ctx context.Context) error {
	if a.cfg.Postgres != nil {
		db, err := database.ConnectAndMigrate(ctx, a.cfg.Postgres.DbURL(), a.log)
		if err != nil {
			return fmt.Errorf("unable to connect to db: %w", err)
		}
		a.db = db

		jwt, err := config.NewJWT(a.cfg.Jwt)
		if err != nil {
			a.log.WithError(err).Warn("player accounts disabled")
		} else {
			a.cookies = config.NewCookies(a.cfg.Cookies, jwt)
		}
	}

	switch a.cfg.Scores.Backend {
	case config.ScoresPostgres:
		a.store = scoreboard.NewPostgresStore(a.db)
	default:
		a.store = scoreboard.NewFileStore(a.cfg.Scores.Path)
	}

	recorder := scoreboard.NewRecorder(
		a.store, a.log.WithField("component", "scoreboard"), a.cfg.Game.RecordTimeout.Duration,
	)
	a.rooms = rooms.NewRegistry(
		a.log.WithField("component", "rooms"),
		rooms.WithTTL(a.cfg.Game.RoomTTL.Duration),
		rooms.WithScoreboard(recorder),
	)

	a.loadRoutes()
	return nil
}

func (a *App) Handler() http.Handler {
	mws := []middleware.Middleware{}
	if a.cookies != nil {
		mws = append(mws, middleware.Auth(a.log, a.cookies))
	}
	mws = append(mws,
		middleware.Cors(a.cfg.CorsOrigins),
		middleware.Logging(a.log.WithField("component", "http")),
	)
	return middleware.Wrap(a.router, mws...)
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:    a.cfg.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", a.cfg.Addr).Info("ready to serve")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.rooms.Run(gCtx, a.cfg.Game.RoomTTL.Duration/4)
	})
	return g.Wait()
}
