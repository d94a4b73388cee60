package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/vyayam/internal/app"
	"github.com/ayusman/vyayam/internal/exercise"
	"github.com/ayusman/vyayam/internal/pose"
	"github.com/ayusman/vyayam/internal/server"
	"github.com/ayusman/vyayam/internal/store"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	if err := s.Profiles().Seed(); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	application := app.New(app.Config{
		Store:        s,
		PluginDir:    filepath.Join(tmpDir, "plugins"),
		MotionThresh: 0.05,
	})
	application.SetDetector(pose.NewMockDetector())

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("ListSeededProfiles", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/profiles")
		if err != nil {
			t.Fatalf("list profiles error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var list struct {
			Profiles []struct {
				ID         string            `json:"id"`
				Definition *exercise.Profile `json:"definition"`
			} `json:"profiles"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatal(err)
		}
		if len(list.Profiles) != 2 {
			t.Fatalf("seeded %d profiles, want 2", len(list.Profiles))
		}
	})

	t.Run("StartPushupSession", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/session/start",
			"application/json",
			strings.NewReader(`{"exercise": "pushup"}`),
		)
		if err != nil {
			t.Fatalf("start session error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("CountReps", func(t *testing.T) {
		session := application.Session()
		if session == nil {
			t.Fatal("no session after start")
		}

		// Two full pushups as seen from the side
		frames := []*pose.Frame{
			pose.PushupUpFrame(0),
			pose.PushupDownFrame(400),
			pose.PushupUpFrame(800),
			pose.PushupDownFrame(1200),
			pose.PushupUpFrame(1600),
		}
		for _, f := range frames {
			session.OnFrame(f)
		}

		resp, err := client.Get(ts.URL + "/api/session")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		var sr struct {
			Running bool             `json:"running"`
			Status  *exercise.Status `json:"status"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
			t.Fatal(err)
		}
		if !sr.Running {
			t.Error("session should be running")
		}
		if sr.Status.Count != 2 {
			t.Errorf("count = %d, want 2", sr.Status.Count)
		}
	})

	t.Run("FormFaultFreezesCount", func(t *testing.T) {
		session := application.Session()

		before := session.Status().Count
		session.OnFrame(pose.PushupSaggingFrame(2000))
		st := session.Status()

		if st.FormValid {
			t.Error("sagging frame should invalidate form")
		}
		if st.Count != before {
			t.Errorf("count changed on invalid form: %d -> %d", before, st.Count)
		}
	})

	t.Run("StopSession", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/session/stop", "application/json", nil)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if application.Session().Running() {
			t.Error("session should be stopped")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after session operations")
		}
	})
}

func TestE2E_CalibrationWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Profiles().Seed(); err != nil {
		t.Fatal(err)
	}

	srv := server.New(server.Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	stored, err := s.Profiles().GetByKind(exercise.KindPushup)
	if err != nil {
		t.Fatal(err)
	}

	// Upload two recorded sweeps going deeper than the stock thresholds
	sweeps := `{"samples": [
		{"angles": [172, 150, 120, 90, 62, 58, 62, 90, 120, 150, 172], "timestamp": 0},
		{"angles": [170, 148, 118, 88, 64, 60, 64, 88, 118, 148, 170], "timestamp": 1}
	]}`
	resp, err := client.Post(
		ts.URL+"/api/profiles/"+stored.ID+"/samples",
		"application/json",
		strings.NewReader(sweeps),
	)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("sample upload status = %d", resp.StatusCode)
	}

	resp, err = client.Post(ts.URL+"/api/profiles/"+stored.ID+"/calibrate", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("calibrate status = %d", resp.StatusCode)
	}

	// The persisted profile carries the calibrated thresholds and still validates
	calibrated, err := s.Profiles().GetByKind(exercise.KindPushup)
	if err != nil {
		t.Fatal(err)
	}
	def := calibrated.Definition
	if err := def.Validate(); err != nil {
		t.Errorf("calibrated profile is invalid: %v", err)
	}
	if def.ContractThreshold == 90 && def.ExtendThreshold == 160 {
		t.Error("thresholds should have changed from the stock values")
	}
	if def.ExtendThreshold-def.ContractThreshold < def.MinThresholdGap {
		t.Errorf("gap %f below minimum %f", def.ExtendThreshold-def.ContractThreshold, def.MinThresholdGap)
	}
}
