package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/repository"
)

// Players is the part of the repository accounts need.
type Players interface {
	CreatePlayer(ctx context.Context, params repository.CreatePlayerParams) (*repository.Player, error)
	FetchPlayer(ctx context.Context, username string) (*repository.Player, error)
}

// Auth serves accounts. Without players or cookies every request is
// anonymous.
type Auth struct {
	log     logrus.FieldLogger
	players Players
	cookies *config.Cookies
}

func NewAuth(log logrus.FieldLogger, players Players, cookies *config.Cookies) *Auth {
	return &Auth{
		log:     log,
		players: players,
		cookies: cookies,
	}
}

func (a Auth) Enabled() bool {
	return a.players != nil && a.cookies != nil
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

var (
	ErrBadAuthBody        = errors.New("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = errors.New("password too long")
	ErrUsernameTaken      = errors.New("username taken")
	ErrBadCredentials     = errors.New("wrong username or password")
)

// bcrypt ignores everything past this many bytes.
const maxPasswordLength = 72

func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok || !a.Enabled() {
		if a.cookies != nil {
			a.cookies.Clear(w)
		}
		sendJSONOrLog(w, a.log, Status{LoggedIn: false})
		return
	}

	a.log.WithField("player", claims.Username).Debug("refresh cookies")
	if err := a.cookies.Refresh(w, claims); err != nil {
		internalError(w, a.log, "unable to refresh cookies", err)
		return
	}
	sendJSONOrLog(w, a.log, Status{
		LoggedIn: true,
		Player:   &PlayerInfo{PlayerId: claims.PlayerId, Username: claims.Username},
	})
}

func (a Auth) credentials(w http.ResponseWriter, r *http.Request) (username, password string, ok bool) {
	if err := r.ParseForm(); err != nil {
		sendError(w, a.log, http.StatusBadRequest, err)
		return "", "", false
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		sendError(w, a.log, http.StatusBadRequest, ErrBadAuthBody)
		return "", "", false
	}
	if len(password) > maxPasswordLength {
		sendError(w, a.log, http.StatusBadRequest, ErrBadPasswordTooLong)
		return "", "", false
	}
	return username, password, true
}

func (a Auth) login(w http.ResponseWriter, player *repository.Player) {
	claims := config.NewPlayerClaims(player.PlayerId, player.Username)
	if err := a.cookies.Refresh(w, claims); err != nil {
		internalError(w, a.log, "unable to set auth cookies", err)
		return
	}
	sendJSONOrLog(w, a.log, Status{
		LoggedIn: true,
		Player:   &PlayerInfo{PlayerId: player.PlayerId, Username: player.Username},
	})
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, ok := a.credentials(w, r)
	if !ok {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		internalError(w, a.log, "unable to hash password", err)
		return
	}

	player, err := a.players.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		sendError(w, a.log, http.StatusConflict, ErrUsernameTaken)
		return
	}
	if err != nil {
		internalError(w, a.log, "unable to insert player", err)
		return
	}

	a.log.WithField("player", player.Username).Info("player registered")
	a.login(w, player)
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := a.credentials(w, r)
	if !ok {
		return
	}

	player, err := a.players.FetchPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		a.log.WithField("username", username).Debug("username not found")
		sendError(w, a.log, http.StatusUnauthorized, ErrBadCredentials)
		return
	}
	if err != nil {
		internalError(w, a.log, "unable to fetch player", err)
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password))
	if err != nil {
		a.log.WithField("username", username).WithError(err).Debug("password rejected")
		sendError(w, a.log, http.StatusUnauthorized, ErrBadCredentials)
		return
	}

	a.login(w, player)
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	sendJSONOrLog(w, a.log, Status{LoggedIn: false})
}
