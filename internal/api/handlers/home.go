package handlers

import (
	"net/http"

	"github.com/amaumene/mediashelf/internal/controllers"
	"github.com/sirupsen/logrus"
)

// HomeHandler serves the home screen sections
type HomeHandler struct {
	home   *controllers.HomeController
	logger *logrus.Logger
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(home *controllers.HomeController, logger *logrus.Logger) *HomeHandler {
	return &HomeHandler{home: home, logger: logger}
}

// Trending handles GET /home/trending?limit=
func (h *HomeHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	entries, err := h.home.Trending(r.Context(), identity(r), limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Current handles GET /home/current
func (h *HomeHandler) Current(w http.ResponseWriter, r *http.Request) {
	entries, err := h.home.Current(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Watchlist handles GET /home/watchlist
func (h *HomeHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.home.Watchlist(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
