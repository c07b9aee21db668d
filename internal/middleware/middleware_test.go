package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/config"
)

func newTestCookies(t *testing.T) *config.Cookies {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwt := config.NewJWTFromKeys(key, &key.PublicKey, time.Hour)
	return config.NewCookies(config.CookiesConfig{SameSite: "lax"}, jwt)
}

func echoClaims(w http.ResponseWriter, r *http.Request) {
	claims, ok := PlayerClaims(r.Context())
	if !ok {
		w.Write([]byte("anonymous"))
		return
	}
	w.Write([]byte(claims.Username))
}

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.NotFoundHandler(), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestAuthWithValidCookies(t *testing.T) {
	cookies := newTestCookies(t)
	log, _ := test.NewNullLogger()

	login := httptest.NewRecorder()
	require.NoError(t, cookies.Refresh(login, config.NewPlayerClaims(7, "amy")))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	Auth(log, cookies)(http.HandlerFunc(echoClaims)).ServeHTTP(rec, req)

	assert.Equal(t, "amy", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthAnonymous(t *testing.T) {
	cookies := newTestCookies(t)
	log, _ := test.NewNullLogger()

	rec := httptest.NewRecorder()
	Auth(log, cookies)(http.HandlerFunc(echoClaims)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies(), "nothing to clear")
}

func TestAuthClearsBrokenCookies(t *testing.T) {
	cookies := newTestCookies(t)
	log, _ := test.NewNullLogger()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth", Value: "not.a"})
	req.AddCookie(&http.Cookie{Name: "sign", Value: "token"})
	rec := httptest.NewRecorder()
	Auth(log, cookies)(http.HandlerFunc(echoClaims)).ServeHTTP(rec, req)

	assert.Equal(t, "anonymous", rec.Body.String())
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 2)
	for _, c := range cleared {
		assert.Equal(t, -1, c.MaxAge, c.Name)
	}
}

func TestLogging(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/game?x=1", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, http.MethodPost, entry.Data["method"])
	assert.Equal(t, "/v1/game?x=1", entry.Data["uri"])
	assert.Equal(t, false, entry.Data["hijacked"])
}

func TestLoggingImplicitOK(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, hook.LastEntry().Data["status"])
}

func TestCors(t *testing.T) {
	h := Cors([]string{"https://sweeper.example"})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://sweeper.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://sweeper.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsAnyOrigin(t *testing.T) {
	h := Cors(nil)(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
