package intake

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iesm-tools/intake/internal/directory"
	"github.com/iesm-tools/intake/internal/form"
)

// RegisterRoutes mounts the session endpoints under /api/sessions.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreate(svc))
		r.Get("/ws", handleWebSocket(svc))
		r.Get("/{id}", handleView(svc))
		r.Post("/{id}/verify", handleVerify(svc))
		r.Post("/{id}/answers", handleAnswers(svc))
		r.Get("/{id}/options", handleOptions(svc))
		r.Post("/{id}/submit", handleSubmit(svc))
	})
}

func handleCreate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.Create(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

func handleView(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.View(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func handleVerify(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
			return
		}

		sess, err := svc.Verify(r.Context(), chi.URLParam(r, "id"), req.Email)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func handleAnswers(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch form.Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
			return
		}

		view, err := svc.Apply(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func handleOptions(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts, err := svc.Options(r.Context(), chi.URLParam(r, "id"), q.Get("field"), q.Get("dept"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"options": opts})
	}
}

func handleSubmit(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := svc.Submit(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

type errorBody struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// writeError maps domain failures onto HTTP statuses: validation problems
// and unmatched emails are client-correctable, fetch failures are upstream
// trouble, everything else is internal.
func writeError(w http.ResponseWriter, err error) {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Problems: ve.Problems})
		return
	}

	var de *directory.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case directory.KindNotFound:
			writeJSON(w, http.StatusNotFound, errorBody{Error: de.Message})
		default:
			writeJSON(w, http.StatusBadGateway, errorBody{Error: de.Message})
		}
		return
	}

	if errors.Is(err, ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
