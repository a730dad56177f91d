package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
)

// DomainHandler serves the interview domain catalog
type DomainHandler struct {
	catalog *catalog.Catalog
}

// NewDomainHandler creates a new domain handler
func NewDomainHandler(cat *catalog.Catalog) *DomainHandler {
	return &DomainHandler{catalog: cat}
}

// List handles GET /v1/domains
func (h *DomainHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"domains": h.catalog.List()})
}

// Resources handles GET /v1/domains/{key}/resources
func (h *DomainHandler) Resources(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	if _, err := h.catalog.Get(key); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"resources": h.catalog.StudyResources(key)})
}
