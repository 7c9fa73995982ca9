package dtos

// ImportFailure describes one bulk-import item that could not be stored.
type ImportFailure struct {
	Index        int    `json:"index"`
	Error        string `json:"error"`
	OriginalData any    `json:"originalData"`
}

// ImportResult is the response body of POST /api/inspections/import.
type ImportResult struct {
	SuccessCount int             `json:"successCount"`
	FailureCount int             `json:"failureCount"`
	Errors       []ImportFailure `json:"errors"`
}

type MessageResponse struct {
	Message      string `json:"message"`
	DeletedCount *int64 `json:"deletedCount,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
