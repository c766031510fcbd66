package routing

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	// A single summary of what was wrong with the request.
	Error string `json:"error"`
	// Every individual failure when the request failed validation.
	Errors []string `json:"errors,omitempty"`
}

type LanguageResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Extension   string `json:"extension"`
	Template    string `json:"template"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	InFlight int64  `json:"in_flight"`
}

func handleJSONResponse(w http.ResponseWriter, body any, code int) {
	response, err := json.Marshal(body)

	if err != nil {
		log.Err(err).Msg("failed to marshal response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func handleErrorResponse(w http.ResponseWriter, message string, code int) {
	handleJSONResponse(w, ErrorResponse{Error: message}, code)
}
