package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteServiceError maps domain errors to status codes: validation
// failures are 400, missing records 404, everything else 500 with the
// original detail preserved.
func WriteServiceError(w http.ResponseWriter, err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return WriteError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, interfaces.ErrNotFound):
		return WriteError(w, http.StatusNotFound, err.Error())
	default:
		return WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// DecodeJSON decodes the request body into dst, writing a 400 on failure.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}
