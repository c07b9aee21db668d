package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// NewUpgrader accepts any origin in development; otherwise the browser
// origin has to match the request host.
func (c Config) NewUpgrader() *websocket.Upgrader {
	upgrader := &websocket.Upgrader{}
	if c.Development() {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
	return upgrader
}
