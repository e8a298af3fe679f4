package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"dev-quiz-service/internal/app"
	"dev-quiz-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts the REST API, the websocket endpoint and health checks.
func NewRouter(service *app.QuizService, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	ws := NewWSHandler(service)
	r.Get("/ws", ws.ServeWS)

	api := &sessionAPI{service: service}
	r.Route("/api/sessions", func(r chi.Router) {
		// Timeouts do not apply to the websocket, which lives outside this group.
		r.Use(middleware.Timeout(30 * time.Second))
		r.Post("/", api.start)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", api.view)
			r.Delete("/", api.abandon)
			r.Post("/answer", api.answer)
			r.Post("/next", api.next)
			r.Post("/prev", api.prev)
			r.Post("/finish", api.finish)
			r.Post("/retry", api.retry)
		})
	})
	return r
}

type sessionAPI struct {
	service *app.QuizService
}

type answerRequest struct {
	Choice *int `json:"choice"`
}

type finishRequest struct {
	Force bool `json:"force"`
}

func (a *sessionAPI) start(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Start(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (a *sessionAPI) view(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.View(r.Context(), chi.URLParam(r, "sessionID"))
	respond(w, view, err)
}

func (a *sessionAPI) abandon(w http.ResponseWriter, r *http.Request) {
	if err := a.service.Abandon(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *sessionAPI) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Choice == nil {
		respondJSON(w, http.StatusBadRequest, errorPayload{Message: "body must be {\"choice\": 0-3}"})
		return
	}
	view, err := a.service.Answer(r.Context(), chi.URLParam(r, "sessionID"), *req.Choice)
	respond(w, view, err)
}

func (a *sessionAPI) next(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Next(r.Context(), chi.URLParam(r, "sessionID"))
	respond(w, view, err)
}

func (a *sessionAPI) prev(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Prev(r.Context(), chi.URLParam(r, "sessionID"))
	respond(w, view, err)
}

func (a *sessionAPI) finish(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	// An empty body means an unforced finish.
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid finish payload"})
			return
		}
	}
	view, err := a.service.Finish(r.Context(), chi.URLParam(r, "sessionID"), req.Force)
	respond(w, view, err)
}

func (a *sessionAPI) retry(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Retry(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func respond(w http.ResponseWriter, view domain.SessionView, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("quiz request failed: %v", err)
	}
	respondJSON(w, status, errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAnswerRequired), errors.Is(err, domain.ErrSessionFinished):
		return http.StatusConflict
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedRecord):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrSourceUnavailable), errors.Is(err, domain.ErrNoQuestions):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
