package controller

import (
	"context"
	"encoding/json"
	"net/http"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/TradeTrust/api-storage/internal/infrastructure/observability"
	"github.com/go-chi/chi/v5"
)

// DocumentStore is the object storage capability the controller needs.
type DocumentStore interface {
	Put(ctx context.Context, id string, doc any) error
	Get(ctx context.Context, id string, out any) error
	Delete(ctx context.Context, id string) error
}

// DocumentController handles JSON document storage requests.
type DocumentController struct {
	store   DocumentStore
	metrics *observability.Metrics
}

// NewDocumentController creates a new DocumentController.
func NewDocumentController(store DocumentStore, metrics *observability.Metrics) *DocumentController {
	return &DocumentController{store: store, metrics: metrics}
}

func (h *DocumentController) count(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	h.metrics.DocumentOpsTotal.WithLabelValues(operation, result).Inc()
}

// Put handles PUT /documents/{id}. Any JSON value is accepted and stored
// as-is; an existing document is replaced.
func (h *DocumentController) Put(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var doc json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, domainErrors.NewValidationError("body", "invalid JSON: "+err.Error()))
		return
	}

	err := h.store.Put(r.Context(), id, doc)
	h.count("put", err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// Get handles GET /documents/{id}.
func (h *DocumentController) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var doc json.RawMessage
	err := h.store.Get(r.Context(), id, &doc)
	h.count("get", err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /documents/{id}.
func (h *DocumentController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.Delete(r.Context(), id)
	h.count("delete", err)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
