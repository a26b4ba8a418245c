package handlers

import (
	"net/http"

	"github.com/amaumene/mediashelf/internal/controllers"
	"github.com/sirupsen/logrus"
)

// ActivityHandler serves activity feeds
type ActivityHandler struct {
	activity *controllers.ActivityController
	logger   *logrus.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activity *controllers.ActivityController, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{activity: activity, logger: logger}
}

// Feed handles GET /activity?page=&limit=
func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, 0)
}

// UserFeed handles GET /activity/{userID}
func (h *ActivityHandler) UserFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.feed(w, r, userID)
}

func (h *ActivityHandler) feed(w http.ResponseWriter, r *http.Request, target uint) {
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	views, err := h.activity.Activity(r.Context(), identity(r), target, page, limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Network handles GET /activity/network?page=&limit=
func (h *ActivityHandler) Network(w http.ResponseWriter, r *http.Request) {
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	views, err := h.activity.NetworkActivity(r.Context(), identity(r), page, limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
