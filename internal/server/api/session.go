package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/vyayam/internal/app"
	"github.com/ayusman/vyayam/internal/exercise"
)

// SessionHandler controls the live exercise session.
type SessionHandler struct {
	app *app.App
}

// NewSessionHandler creates a new SessionHandler for the given app.
func NewSessionHandler(a *app.App) *SessionHandler {
	return &SessionHandler{app: a}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/session, /api/session/start, /api/session/stop,
// /api/session/reset
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.status(w, r)
	case "start":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.start(w, r)
	case "stop":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.stop(w, r)
	case "reset":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.reset(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Request and response types

type startSessionRequest struct {
	Exercise string `json:"exercise"`
}

type sessionResponse struct {
	Running bool             `json:"running"`
	Status  *exercise.Status `json:"status,omitempty"`
}

// status handles GET /api/session and returns the current session state.
func (h *SessionHandler) status(w http.ResponseWriter, r *http.Request) {
	session := h.app.Session()
	if session == nil {
		writeJSON(w, http.StatusOK, sessionResponse{Running: false})
		return
	}

	st := session.Status()
	writeJSON(w, http.StatusOK, sessionResponse{
		Running: session.Running(),
		Status:  &st,
	})
}

// start handles POST /api/session/start. When an exercise is named in the
// request it becomes the tracked exercise; otherwise the current one is kept.
func (h *SessionHandler) start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	if req.Exercise != "" {
		if err := h.app.SetExercise(exercise.Kind(req.Exercise)); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	session := h.app.Session()
	if session == nil {
		writeError(w, http.StatusBadRequest, "No exercise selected")
		return
	}

	session.Start()

	st := session.Status()
	writeJSON(w, http.StatusOK, sessionResponse{Running: true, Status: &st})
}

// stop handles POST /api/session/stop.
func (h *SessionHandler) stop(w http.ResponseWriter, r *http.Request) {
	session := h.app.Session()
	if session == nil {
		writeError(w, http.StatusBadRequest, "No exercise selected")
		return
	}

	session.Stop()

	st := session.Status()
	writeJSON(w, http.StatusOK, sessionResponse{Running: false, Status: &st})
}

// reset handles POST /api/session/reset and zeroes the rep count without
// stopping the session.
func (h *SessionHandler) reset(w http.ResponseWriter, r *http.Request) {
	session := h.app.Session()
	if session == nil {
		writeError(w, http.StatusBadRequest, "No exercise selected")
		return
	}

	session.Reset()

	st := session.Status()
	writeJSON(w, http.StatusOK, sessionResponse{Running: session.Running(), Status: &st})
}
