package common

import (
	"encoding/json"
	"net/http"
	"time"

	"textile-qc/inspections/internal/logging"
	"textile-qc/inspections/internal/models/dtos"
)

const responseTimeHeader = "X-Response-Time"

// RespondJSON writes body as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, initTime time.Time, statusCode int, body any) {
	w.Header().Set(responseTimeHeader, GetResponseTime(initTime))
	writeJSON(w, statusCode, body)
}

// RespondError sends a {"error": message} body. message must be safe to show clients.
func RespondError(w http.ResponseWriter, initTime time.Time, message string, statusCode int) {
	RespondJSON(w, initTime, statusCode, dtos.ErrorResponse{Error: message})
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(payload, '\n'))
}
