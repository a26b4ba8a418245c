package handlers

import (
	"net/http"

	"github.com/amaumene/mediashelf/internal/controllers"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/sirupsen/logrus"
)

// CollectionHandler serves collections and ownership mutations
type CollectionHandler struct {
	collection *controllers.CollectionController
	logger     *logrus.Logger
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(collection *controllers.CollectionController, logger *logrus.Logger) *CollectionHandler {
	return &CollectionHandler{collection: collection, logger: logger}
}

// Collection handles GET /collection/{userID}?category=&status=
func (h *CollectionHandler) Collection(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var filter models.CollectionFilter
	if raw := r.URL.Query().Get("category"); raw != "" {
		if filter.Category, err = models.ParseCategory(raw); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		if filter.Status, err = models.ParseStatus(raw); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	entries, err := h.collection.FullCollection(r.Context(), userID, filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

const alreadyListedMessage = "already in your list"

type addItemResponse struct {
	Item    *models.UserItem `json:"item"`
	Created bool             `json:"created"`
	Message string           `json:"message,omitempty"`
}

// AddItem handles POST /user-items. 201 when the row is new, 200 with a
// message when it existed.
func (h *CollectionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	item, created, err := h.collection.AddItem(r.Context(), identity(r), req.ExternalID, req.Category, req.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, addItemResponse{Item: item, Message: alreadyListedMessage})
		return
	}
	writeJSON(w, http.StatusCreated, addItemResponse{Item: item, Created: true})
}

// UpdateItem handles PUT /user-items/{id}
func (h *CollectionHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req updateItemRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	item, err := h.collection.UpdateItem(r.Context(), identity(r), itemID, req.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /user-items/{id}
func (h *CollectionHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.collection.DeleteItem(r.Context(), identity(r), itemID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetStatus handles POST /status
func (h *CollectionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	item, err := h.collection.SetStatus(r.Context(), identity(r), req.ExternalID, req.Category, req.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
