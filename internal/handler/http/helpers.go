package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/toronyi/bakery-api/internal/order"
	"github.com/toronyi/bakery-api/internal/product"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Count     *int   `json:"count,omitempty"`
	Date      string `json:"date,omitempty"`
	Timestamp string `json:"timestamp"`
}

func respondWithJSON(w http.ResponseWriter, code int, env Envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)

	response, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondWithData(w http.ResponseWriter, code int, data any, message string) {
	respondWithJSON(w, code, Envelope{Success: true, Data: data, Message: message})
}

// respondWithList adds the count and date fields the staff listing endpoints
// carry on top of the plain data envelope.
func respondWithList(w http.ResponseWriter, data any, count int, date string) {
	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count, Date: date})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, Envelope{Success: false, Message: message})
}

func respondWithErrorDetail(w http.ResponseWriter, code int, message, detail string) {
	respondWithJSON(w, code, Envelope{Success: false, Message: message, Error: detail})
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound), errors.Is(err, product.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrCodeExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fe.Field()+" failed on "+fe.Tag())
	}
	return strings.Join(details, "; ")
}
