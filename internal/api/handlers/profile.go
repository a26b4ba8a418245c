package handlers

import (
	"net/http"

	"github.com/amaumene/mediashelf/internal/controllers"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/sirupsen/logrus"
)

// ProfileHandler serves profiles and user search
type ProfileHandler struct {
	profiles *controllers.ProfileController
	logger   *logrus.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *controllers.ProfileController, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// Me handles GET /profile
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.profile(w, r, 0)
}

// Get handles GET /profile/{userID}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.profile(w, r, userID)
}

func (h *ProfileHandler) profile(w http.ResponseWriter, r *http.Request, userID uint) {
	view, err := h.profiles.Profile(r.Context(), identity(r), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Update handles PUT /profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	user, err := h.profiles.UpdateProfile(r.Context(), identity(r), models.ProfileUpdate{Name: req.Name, Bio: req.Bio})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateAvatar handles PUT /profile/avatar
func (h *ProfileHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	var req avatarRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	user, err := h.profiles.UpdateAvatar(r.Context(), identity(r), req.Avatar)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SearchUsers handles GET /users/search?query=
func (h *ProfileHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		query = r.URL.Query().Get("q")
	}
	matches, err := h.profiles.SearchUsers(r.Context(), identity(r), query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
