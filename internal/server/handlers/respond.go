// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"partypulse/internal/domain/party"
	"partypulse/internal/logger"
)

// errorResponse is the body of every error reply
type errorResponse struct {
	Detail string `json:"detail"`
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses. Server errors are logged with their cause.
func respondWithError(w http.ResponseWriter, log logger.Logger, code int, message string, err error) {
	if err != nil && code >= http.StatusInternalServerError {
		log.Error("request failed",
			logger.Int("status", code),
			logger.String("detail", message),
			logger.Error(err),
		)
	}

	respondWithJSON(w, code, errorResponse{Detail: message})
}

// partyFilter reads the optional party query parameter. "all", empty and
// unknown values select both parties.
func partyFilter(r *http.Request) party.Party {
	p, ok := party.Parse(r.URL.Query().Get("party"))
	if !ok {
		return ""
	}
	return p
}

// intQuery reads a positive integer query parameter with a default
func intQuery(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
