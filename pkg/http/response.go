package http

import (
	"encoding/json"
	"net/http"
	apperrors "mentorbook/pkg/errors"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError renders field validation failures as the bare field map
// ({"start_time": ["is already booked!"]}) and everything else as ErrorResponse.
func WriteError(w http.ResponseWriter, err error) {
	e := apperrors.AsAppError(err)

	statusCode := e.StatusCode()
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	if e.Code == apperrors.CodeValidation && len(e.Fields) > 0 {
		WriteJSON(w, statusCode, e.Fields)
		return
	}

	if e.Code == apperrors.CodeInternal {
		WriteJSON(w, statusCode, ErrorResponse{Error: "Internal server error"})
		return
	}

	WriteJSON(w, statusCode, ErrorResponse{
		Error:   e.Message,
		Details: e.Details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
