package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the JSON response shape shared by every endpoint
type Envelope struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// RespondWithData sends a success envelope
func RespondWithData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeEnvelope(w, statusCode, Envelope{Success: true, Data: data})
}

// RespondWithMessage sends a success envelope carrying only a message
func RespondWithMessage(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, Envelope{Success: true, Message: message})
}

// RespondWithError sends a failure envelope
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, Envelope{Success: false, Message: message})
}

// RespondWithFieldErrors sends a 400 envelope keyed by offending field
func RespondWithFieldErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	writeEnvelope(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  fieldErrors,
	})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(env)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
