package handlers

import (
	"context"
	"net/http"

	"github.com/amaumene/mediashelf/internal/controllers"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/sirupsen/logrus"
)

type listFunc func(ctx context.Context, identity models.Identity, userID uint, page, pageSize int) ([]controllers.ConnectionView, error)

// SocialHandler serves the relationship endpoints
type SocialHandler struct {
	social *controllers.SocialController
	logger *logrus.Logger
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(social *controllers.SocialController, logger *logrus.Logger) *SocialHandler {
	return &SocialHandler{social: social, logger: logger}
}

// Followers handles GET /social/followers/{userID}
func (h *SocialHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.social.Followers)
}

// Following handles GET /social/following/{userID}
func (h *SocialHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.social.Following)
}

func (h *SocialHandler) list(w http.ResponseWriter, r *http.Request, fn listFunc) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	views, err := fn(r.Context(), identity(r), userID, page, limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// ToggleFollow handles POST /social/follow/{userID}
func (h *SocialHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	target, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	following, err := h.social.ToggleFollow(r.Context(), identity(r), target)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"following": following})
}

// Unfollow handles DELETE /social/follow/{userID}, removing the edge in either model
func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	target, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.social.RemoveConnection(r.Context(), identity(r), target); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFriend handles POST /social/friends
func (h *SocialHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.social.AddFriend(r.Context(), identity(r), req.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint{"userId": req.UserID})
}

// Shared handles GET /social/shared/{userID}
func (h *SocialHandler) Shared(w http.ResponseWriter, r *http.Request) {
	other, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	n, err := h.social.SharedCount(r.Context(), identity(r), other)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"sharedCount": n})
}
