package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/vyayam/internal/exercise"
	"github.com/ayusman/vyayam/internal/store"
)

// SamplesHandler handles calibration sample recording and calibration runs
// for exercise profiles.
type SamplesHandler struct {
	store      *store.Store
	calibrator *exercise.Calibrator
}

// NewSamplesHandler creates a new SamplesHandler with the given store.
func NewSamplesHandler(s *store.Store) *SamplesHandler {
	return &SamplesHandler{
		store:      s,
		calibrator: exercise.NewCalibrator(),
	}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/profiles/{id}/samples and /api/profiles/{id}/calibrate
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	profileID := parts[0]

	switch parts[1] {
	case "samples":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, profileID)
		case http.MethodPost:
			h.create(w, r, profileID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "calibrate":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.calibrate(w, r, profileID)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Request and response types

type createSamplesRequest struct {
	Samples []json.RawMessage `json:"samples"`
}

type sampleResponse struct {
	ID          int64           `json:"id"`
	ProfileID   string          `json:"profile_id"`
	SampleIndex int             `json:"sample_index"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   string          `json:"created_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
}

// list handles GET /api/profiles/{id}/samples
func (h *SamplesHandler) list(w http.ResponseWriter, r *http.Request, profileID string) {
	samples, err := h.store.Samples().GetByProfileID(profileID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	response := listSamplesResponse{
		Samples: make([]sampleResponse, 0, len(samples)),
	}
	for _, s := range samples {
		response.Samples = append(response.Samples, sampleResponse{
			ID:          s.ID,
			ProfileID:   s.ProfileID,
			SampleIndex: s.SampleIndex,
			Data:        s.Data,
			CreatedAt:   s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/profiles/{id}/samples and replaces the recorded
// sweeps for the profile.
func (h *SamplesHandler) create(w http.ResponseWriter, r *http.Request, profileID string) {
	if _, err := h.store.Profiles().GetByID(profileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify profile")
		return
	}

	var req createSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "At least one sample is required")
		return
	}

	if err := h.store.Samples().Create(profileID, req.Samples); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save samples")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// calibrate handles POST /api/profiles/{id}/calibrate. It derives new
// hysteresis thresholds from the recorded sweeps and persists the updated
// profile.
func (h *SamplesHandler) calibrate(w http.ResponseWriter, r *http.Request, profileID string) {
	profile, err := h.store.Profiles().GetByID(profileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	samples, err := h.store.Samples().GetByProfileID(profileID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load samples")
		return
	}
	if len(samples) == 0 {
		writeError(w, http.StatusBadRequest, "No samples recorded for this profile")
		return
	}

	raw := make([]json.RawMessage, 0, len(samples))
	for _, s := range samples {
		raw = append(raw, s.Data)
	}

	calibrated, err := h.calibrator.Calibrate(profile.Definition, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile.Definition = calibrated
	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calibrated profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}
