package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"textile-qc/inspections/internal/common"
	reqctx "textile-qc/inspections/internal/context"
	"textile-qc/inspections/internal/logging"
	"textile-qc/inspections/internal/services"
)

const (
	msgServerError     = "Server error"
	msgInvalidBody     = "Invalid request body"
	msgBodyTooLarge    = "Request body too large"
	msgNotFound        = "Inspection not found"
	msgSaveFailed      = "Failed to save inspection"
	msgUpdateFailed    = "Failed to update inspection"
	msgImportFailed    = "Failed to import inspection data"
	msgDeleteAllFailed = "Failed to delete all inspections."
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// decodeBody reads the JSON body keeping numbers as json.Number so that
// coercion sees exactly what the client sent.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON body")
	}
	return nil
}

// respondDecodeError answers a body that could not be read or parsed.
func respondDecodeError(w http.ResponseWriter, initTime time.Time, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		common.RespondError(w, initTime, msgBodyTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	common.RespondError(w, initTime, msgInvalidBody, http.StatusBadRequest)
}

// respondServiceError maps the service error taxonomy onto status codes.
// Storage details are logged and replaced by fallback.
func respondServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error, fallback string) {
	var vErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrInspectionNotFound):
		common.RespondError(w, initTime, msgNotFound, http.StatusNotFound)
	case errors.As(err, &vErr):
		common.RespondError(w, initTime, vErr.Error(), http.StatusBadRequest)
	default:
		logging.WithRequest(reqctx.GetRequestID(r.Context()), r.URL.Path).Errorw("Inspection request failed",
			"method", r.Method,
			"error", err.Error(),
		)
		common.RespondError(w, initTime, fallback, http.StatusInternalServerError)
	}
}
