package handlers

import (
	"net/http"

	"github.com/amaumene/mediashelf/internal/controllers"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// CatalogHandler serves search and item detail
type CatalogHandler struct {
	search *controllers.SearchController
	detail *controllers.DetailController
	logger *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(search *controllers.SearchController, detail *controllers.DetailController, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{search: search, detail: detail, logger: logger}
}

// Search handles GET /search?query=&category=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	category, err := models.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	query := r.URL.Query().Get("query")
	if query == "" {
		query = r.URL.Query().Get("q")
	}
	writeJSON(w, http.StatusOK, h.search.Search(r.Context(), identity(r), query, category))
}

// Detail handles GET /items/{category}/{externalID}
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	category, err := models.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	result, err := h.detail.GetDetail(r.Context(), identity(r), category, chi.URLParam(r, "externalID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
