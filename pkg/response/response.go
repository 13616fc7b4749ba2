package response

import (
	"encoding/json"
	"net/http"
)

// Error kinds carried in the errorKind field.
const (
	KindDatabase    = "database"
	KindInvalidBody = "invalid_body"
	KindInternal    = "internal"
)

type errorBody struct {
	Error     string `json:"error"`
	ErrorKind string `json:"errorKind"`
}

// JSON writes data as a JSON body with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, kind, message string) {
	JSON(w, status, errorBody{Error: message, ErrorKind: kind})
}

// InvalidBody sends a 400 for a request body that could not be decoded.
func InvalidBody(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, KindInvalidBody, err.Error())
}

// DatabaseError sends a 500 for a failed statement. When expose is false the
// driver message is replaced by a generic one.
func DatabaseError(w http.ResponseWriter, err error, expose bool) {
	msg := "database error"
	if expose {
		msg = err.Error()
	}
	Error(w, http.StatusInternalServerError, KindDatabase, msg)
}

// Internal sends a 500 with the internal kind.
func Internal(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, KindInternal, "Internal Server Error")
}
