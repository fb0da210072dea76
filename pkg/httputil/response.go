package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/platinummonkey/todo/pkg/apperrors"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteDetail writes an error body with the given status and message
func WriteDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Detail: detail})
}

// WriteError translates err into a status and detail message.
// Only *apperrors.Error messages are exposed; everything else is a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	status, detail := StatusAndDetail(err)
	WriteDetail(w, status, detail)
}

// StatusAndDetail returns what WriteError would send for err
func StatusAndDetail(err error) (int, string) {
	appErr, ok := apperrors.As(err)
	if !ok {
		return http.StatusInternalServerError, internalDetail
	}
	status := appErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		return status, internalDetail
	}
	return status, appErr.Message
}

const internalDetail = "Internal server error"

// WriteCreated writes a successful creation response (201 Created) with JSON data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteSuccess writes a successful response (200 OK) with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteNoContent writes a successful response with no content (204 No Content)
func WriteNoContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}
