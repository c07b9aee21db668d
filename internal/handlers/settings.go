package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
)

type SettingsHandler struct {
	log  logrus.FieldLogger
	mu   sync.Mutex
	path string
}

func NewSettingsHandler(log logrus.FieldLogger, path string) *SettingsHandler {
	return &SettingsHandler{log: log, path: path}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	settings := config.LoadSettings(h.path)
	h.mu.Unlock()
	sendJSONOrLog(w, h.log, settings)
}

// Put replaces the settings with the JSON body. Keys the body leaves out
// keep their defaults.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	settings := config.DefaultSettings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := config.WriteSettings(h.path, settings); err != nil {
		internalError(w, h.log, "unable to write settings", err)
		return
	}
	h.log.WithField("sound_enabled", settings.SoundEnabled).Info("settings saved")
	sendJSONOrLog(w, h.log, settings)
}
