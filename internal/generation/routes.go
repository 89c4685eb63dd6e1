package generation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the hosted generation endpoint.
func RegisterRoutes(r chi.Router, client *Client) {
	r.Post("/api/generate", handleGenerate(client))
}

type generateRequest struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// toRequest applies the fields the caller set over the defaults.
func (g generateRequest) toRequest() Request {
	var opts []RequestOption
	if g.MaxTokens != nil {
		opts = append(opts, WithMaxTokens(*g.MaxTokens))
	}
	if g.Temperature != nil {
		opts = append(opts, WithTemperature(*g.Temperature))
	}
	if g.TopP != nil {
		opts = append(opts, WithTopP(*g.TopP))
	}
	return NewRequest(g.Prompt, opts...)
}

func handleGenerate(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		resp, err := client.Generate(r.Context(), req.toRequest())
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HTTPStatus maps a generation failure to the status a handler should reply with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, ErrRateLimited), errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// retryAfterSeconds is advertised when the upstream stayed rate limited or cold.
const retryAfterSeconds = 30

// WriteError writes err as a JSON error body with the matching status.
func WriteError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServiceUnavailable) {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
