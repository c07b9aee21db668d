package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func NewCookies(cfg CookiesConfig, jwt *JWT) *Cookies {
	return &Cookies{
		Domain:   cfg.Domain,
		Secure:   cfg.Secure,
		SameSite: parseSameSite(cfg.SameSite),
		jwt:      jwt,
	}
}

const (
	authCookie = "auth"
	signCookie = "sign"
)

// cookie builds one half of the token. The signature half is never
// visible to scripts.
func (c *Cookies) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		HttpOnly: name == signCookie,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{authCookie, signCookie} {
		cookie := c.cookie(name, "delete")
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

// Refresh signs the claims and stores the token in two cookies: header
// and payload readable by scripts, the signature http-only.
func (c *Cookies) Refresh(w http.ResponseWriter, claims *PlayerClaims) error {
	token, err := c.jwt.Sign(claims)
	if err != nil {
		return err
	}
	payload, signature, ok := cutLast(token, ".")
	if !ok || strings.Count(payload, ".") != 1 {
		return fmt.Errorf("malformed JWT token generated")
	}
	expires := time.Now().Add(c.jwt.TokenLifetime)
	for name, value := range map[string]string{authCookie: payload, signCookie: signature} {
		cookie := c.cookie(name, value)
		cookie.Expires = expires
		http.SetCookie(w, cookie)
	}
	return nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}

func (c *Cookies) ParsePlayerClaims(r *http.Request) (*PlayerClaims, error) {
	auth, err := r.Cookie(authCookie)
	if err != nil {
		return nil, err
	}
	sign, err := r.Cookie(signCookie)
	if err != nil {
		return nil, err
	}
	return c.jwt.Parse(auth.Value + "." + sign.Value)
}
