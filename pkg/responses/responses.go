// Package responses writes JSON response bodies.
package responses

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorBody is the JSON body of an error response.
type ErrorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// JSON writes data as a JSON body with statusCode. The body is encoded
// before the header is written, so an encoding failure still produces a 500.
func JSON(w http.ResponseWriter, statusCode int, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return fmt.Errorf("failed to encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err = w.Write(append(body, '\n'))
	return err
}

// Error writes an ErrorBody.
func Error(w http.ResponseWriter, statusCode int, body ErrorBody) error {
	return JSON(w, statusCode, body)
}
