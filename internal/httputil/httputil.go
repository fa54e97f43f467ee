// Package httputil provides shared HTTP response and request helpers.
package httputil

import (
	"encoding/json"
	"net/http"
	"strings"
)

// UserIDHeader carries the authenticated user's stable ID, supplied by the
// out-of-scope auth collaborator in front of this API.
const UserIDHeader = "X-User-ID"

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error body with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorBody{Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// Conflict writes a 409 response.
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

// PaymentRequired writes a 402 response, used for insufficient balances.
func PaymentRequired(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusPaymentRequired, message)
}

// InternalError writes a 500 response.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// DecodeJSON decodes the request body into v, writing a 400 on failure.
// Returns false when the caller should stop handling the request.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// RequireUserID extracts the user ID header, writing a 401 when absent.
// Returns false when the caller should stop handling the request.
func RequireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "missing "+UserIDHeader+" header")
		return "", false
	}
	return userID, true
}
