package app

import (
	"github.com/vancomm/sweeper/internal/handlers"
	"github.com/vancomm/sweeper/internal/repository"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.log.WithField("component", "game"),
		a.rooms,
		a.cfg.NewUpgrader(),
		a.cfg.Game.TickInterval.Duration,
	)
	a.router.HandleFunc("POST /v1/game", game.NewGame)
	a.router.HandleFunc("GET /v1/game/{id}", game.Fetch)
	a.router.HandleFunc("POST /v1/game/{id}/open", game.Open())
	a.router.HandleFunc("POST /v1/game/{id}/flag", game.Flag())
	a.router.HandleFunc("POST /v1/game/{id}/chord", game.Chord)
	a.router.HandleFunc("POST /v1/game/{id}/press", game.Press)
	a.router.HandleFunc("POST /v1/game/{id}/release", game.Release)
	a.router.HandleFunc("POST /v1/game/{id}/restart", game.Restart)
	a.router.HandleFunc("/v1/game/{id}/connect", game.Connect)

	records := handlers.NewRecordsHandler(a.log.WithField("component", "records"), a.store)
	a.router.HandleFunc("GET /v1/records", records.Records)

	settings := handlers.NewSettingsHandler(a.log.WithField("component", "settings"), a.cfg.Game.SettingsPath)
	a.router.HandleFunc("GET /v1/settings", settings.Get)
	a.router.HandleFunc("PUT /v1/settings", settings.Put)

	var players handlers.Players
	if a.db != nil {
		players = repository.New(a.db)
	}
	auth := handlers.NewAuth(a.log.WithField("component", "auth"), players, a.cookies)
	a.router.HandleFunc("GET /v1/status", auth.Status)
	if auth.Enabled() {
		a.router.HandleFunc("POST /v1/register", auth.Register)
		a.router.HandleFunc("POST /v1/login", auth.Login)
		a.router.HandleFunc("POST /v1/logout", auth.Logout)
	}
}
