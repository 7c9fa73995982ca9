package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"textile-qc/inspections/internal/common"
	"textile-qc/inspections/internal/models/dtos"
	"textile-qc/inspections/internal/services"
)

// ListInspections handles GET /api/inspections
// Returns every record, newest created first
func (h *Handlers) ListInspections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		recs, err := h.deps.Services.Inspections.List(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err, msgServerError)
			return
		}
		common.RespondJSON(w, initTime, http.StatusOK, recs)
	}
}

// GetInspection handles GET /api/inspections/{id}
func (h *Handlers) GetInspection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		rec, err := h.deps.Services.Inspections.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, initTime, err, msgServerError)
			return
		}
		common.RespondJSON(w, initTime, http.StatusOK, rec)
	}
}

// CreateInspection handles POST /api/inspections
func (h *Handlers) CreateInspection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var body map[string]any
		if err := decodeBody(r, &body); err != nil {
			respondDecodeError(w, initTime, err)
			return
		}
		if body == nil {
			common.RespondError(w, initTime, msgInvalidBody, http.StatusBadRequest)
			return
		}

		rec, err := h.deps.Services.Inspections.Create(r.Context(), common.FieldsOf(body))
		if err != nil {
			respondServiceError(w, r, initTime, err, msgSaveFailed)
			return
		}
		common.RespondJSON(w, initTime, http.StatusCreated, rec)
	}
}

// ImportInspections handles POST /api/inspections/import and /bulk
// Body is a JSON array of raw records. ?mode=atomic stores all or nothing;
// the default stores item by item and reports per-item failures.
func (h *Handlers) ImportInspections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var body any
		if err := decodeBody(r, &body); err != nil {
			respondDecodeError(w, initTime, err)
			return
		}
		items, ok := body.([]any)
		if !ok || len(items) == 0 {
			common.RespondError(w, initTime, services.ErrNoData.Error(), http.StatusBadRequest)
			return
		}

		mode := services.ImportModePerItem
		if r.URL.Query().Get("mode") == string(services.ImportModeAtomic) {
			mode = services.ImportModeAtomic
		}

		result, err := h.deps.Services.Import.Import(r.Context(), items, mode)
		if err != nil {
			if services.IsBatchRejected(err) && result != nil {
				common.RespondJSON(w, initTime, http.StatusBadRequest, result)
				return
			}
			respondServiceError(w, r, initTime, err, msgImportFailed)
			return
		}
		common.RespondJSON(w, initTime, http.StatusOK, result)
	}
}

// UpdateInspection handles PUT /api/inspections/{id}
func (h *Handlers) UpdateInspection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var body map[string]any
		if err := decodeBody(r, &body); err != nil {
			respondDecodeError(w, initTime, err)
			return
		}

		rec, err := h.deps.Services.Inspections.Update(r.Context(), chi.URLParam(r, "id"), common.FieldsOf(body))
		if err != nil {
			respondServiceError(w, r, initTime, err, msgUpdateFailed)
			return
		}
		common.RespondJSON(w, initTime, http.StatusOK, rec)
	}
}

// DeleteInspection handles DELETE /api/inspections/{id}
func (h *Handlers) DeleteInspection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.Inspections.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, r, initTime, err, msgServerError)
			return
		}
		common.RespondJSON(w, initTime, http.StatusOK, dtos.MessageResponse{Message: "Inspection deleted successfully"})
	}
}

// DeleteAllInspections handles DELETE /api/inspections/deleteAll
func (h *Handlers) DeleteAllInspections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		n, err := h.deps.Services.Inspections.DeleteAll(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err, msgDeleteAllFailed)
			return
		}
		common.RespondJSON(w, initTime, http.StatusOK, dtos.MessageResponse{
			Message:      "All inspections deleted successfully!",
			DeletedCount: &n,
		})
	}
}
