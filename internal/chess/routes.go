package chess

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/cadena/internal/generation"
	"github.com/ziadkadry99/cadena/internal/render"
)

// RegisterRoutes mounts the tournament analysis API routes.
func RegisterRoutes(r chi.Router, analyst *Analyst, validator *DetailsValidator, renderer *render.Renderer) {
	r.Route("/api/chess", func(r chi.Router) {
		r.Post("/links", handleLinks())
		r.Post("/validate", handleValidate(validator))
		r.Post("/ask", handleAsk(analyst, validator))
		r.Post("/deep-dive", handleDeepDive(analyst, validator, renderer))
		r.Post("/forecast", handleForecast(analyst, validator, renderer))
	})
}

type linksRequest struct {
	Link string `json:"link"`
}

type linksResponse struct {
	URLs []string `json:"urls"`
}

func handleLinks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req linksRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Link == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "link is required"})
			return
		}
		writeJSON(w, http.StatusOK, linksResponse{URLs: ExpandLink(req.Link)})
	}
}

func handleValidate(validator *DetailsValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d Details
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := validator.Validate(d); err != nil {
			writeValidationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
	}
}

type answerResponse struct {
	Answer string `json:"answer"`
}

func handleAsk(analyst *Analyst, validator *DetailsValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in AskInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := validator.Validate(Details{Name: in.Name, Link: in.Link}); err != nil {
			writeValidationError(w, err)
			return
		}
		if in.Question == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
			return
		}

		answer, err := analyst.Ask(r.Context(), in)
		if err != nil {
			generation.WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, answerResponse{Answer: answer})
	}
}

type reportRequest struct {
	Name   string `json:"name"`
	Link   string `json:"link"`
	Player string `json:"player,omitempty"`
}

type reportResponse struct {
	Report string `json:"report"`
}

func handleDeepDive(analyst *Analyst, validator *DetailsValidator, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := validator.Validate(Details{Name: req.Name, Link: req.Link}); err != nil {
			writeValidationError(w, err)
			return
		}
		if req.Player == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "player is required"})
			return
		}

		report, err := analyst.DeepDive(r.Context(), req.Name, req.Link, req.Player)
		if err != nil {
			generation.WriteError(w, err)
			return
		}
		writeReport(w, r, renderer, "Deep Dive: "+req.Player, report)
	}
}

func handleForecast(analyst *Analyst, validator *DetailsValidator, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := validator.Validate(Details{Name: req.Name, Link: req.Link}); err != nil {
			writeValidationError(w, err)
			return
		}

		report, err := analyst.BattleForecast(r.Context(), req.Name, req.Link)
		if err != nil {
			generation.WriteError(w, err)
			return
		}
		writeReport(w, r, renderer, "Battle Forecast: "+req.Name, report)
	}
}

// writeReport replies with JSON, or with a rendered HTML page for ?format=html.
func writeReport(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, title, report string) {
	if r.URL.Query().Get("format") != "html" || renderer == nil {
		writeJSON(w, http.StatusOK, reportResponse{Report: report})
		return
	}
	page, err := renderer.Page(title, report)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Error(), "fields": verr.Fields})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
