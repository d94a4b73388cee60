package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/vyayam/internal/app"
	"github.com/ayusman/vyayam/internal/exercise"
	"github.com/ayusman/vyayam/internal/pose"
)

func newTestSessionHandler(t *testing.T) *SessionHandler {
	t.Helper()

	s := newTestStore(t)
	if err := s.Profiles().Seed(); err != nil {
		t.Fatal(err)
	}

	a := app.New(app.Config{Store: s, PluginDir: t.TempDir()})
	a.SetDetector(pose.NewMockDetector())
	return NewSessionHandler(a)
}

func TestSessionHandler_Status_NoExercise(t *testing.T) {
	handler := newTestSessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Running {
		t.Error("session should not be running before start")
	}
}

func TestSessionHandler_StartStopReset(t *testing.T) {
	handler := newTestSessionHandler(t)

	body := bytes.NewBufferString(`{"exercise": "pushup"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/session/start", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Running {
		t.Error("session should be running after start")
	}
	if resp.Status.Exercise != exercise.KindPushup {
		t.Errorf("exercise = %s, want pushup", resp.Status.Exercise)
	}

	// Count a rep, then reset should zero it without stopping
	session := handler.app.Session()
	session.OnFrame(pose.PushupUpFrame(0))
	session.OnFrame(pose.PushupDownFrame(500))
	session.OnFrame(pose.PushupUpFrame(1000))
	if session.Status().Count != 1 {
		t.Fatalf("count = %d, want 1", session.Status().Count)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/session/reset", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if session.Status().Count != 0 {
		t.Error("count should be zero after reset")
	}
	if !session.Running() {
		t.Error("reset should not stop the session")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/session/stop", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("stop status = %d", rec.Code)
	}
	if session.Running() {
		t.Error("session should be stopped")
	}
}

func TestSessionHandler_Start_UnknownExercise(t *testing.T) {
	handler := newTestSessionHandler(t)

	body := bytes.NewBufferString(`{"exercise": "deadlift"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/session/start", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSessionHandler_Start_NoExerciseSelected(t *testing.T) {
	handler := newTestSessionHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/session/start", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSessionHandler_StopWithoutSession(t *testing.T) {
	handler := newTestSessionHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/session/stop", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	handler := newTestSessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session/start", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
