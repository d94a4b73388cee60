package app

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/vyayam/internal/exercise"
	"github.com/ayusman/vyayam/internal/pose"
	"github.com/ayusman/vyayam/internal/store"
)

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Profiles().Seed(); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	a := New(Config{
		Store:     s,
		PluginDir: filepath.Join(tmpDir, "plugins"),
		CameraID:  0,
	})
	a.SetDetector(pose.NewMockDetector())

	return a, s
}

func TestApp_EnabledToggle(t *testing.T) {
	a, _ := newTestApp(t)

	if a.IsEnabled() {
		t.Error("tracking should be disabled initially")
	}

	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("tracking should be enabled after SetEnabled(true)")
	}

	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("tracking should be disabled after SetEnabled(false)")
	}
}

func TestApp_SetExercise(t *testing.T) {
	a, _ := newTestApp(t)

	if a.Session() != nil {
		t.Fatal("no session should exist before an exercise is selected")
	}

	if err := a.SetExercise(exercise.KindPushup); err != nil {
		t.Fatalf("SetExercise() error = %v", err)
	}

	session := a.Session()
	if session == nil {
		t.Fatal("Session() returned nil after SetExercise")
	}
	if session.Profile().Kind != exercise.KindPushup {
		t.Errorf("session profile kind = %s, want %s", session.Profile().Kind, exercise.KindPushup)
	}
}

func TestApp_SetExercise_Unknown(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.SetExercise(exercise.Kind("yoga")); err == nil {
		t.Error("SetExercise() with unknown kind should fail")
	}
}

func TestApp_SetExercise_UsesStoredProfile(t *testing.T) {
	a, s := newTestApp(t)

	// Tune the stored pushup profile and make sure the app picks it up
	stored, err := s.Profiles().GetByKind(exercise.KindPushup)
	if err != nil {
		t.Fatalf("GetByKind() error = %v", err)
	}
	stored.Definition.ContractThreshold = 85
	if err := s.Profiles().Update(stored); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if err := a.SetExercise(exercise.KindPushup); err != nil {
		t.Fatalf("SetExercise() error = %v", err)
	}

	if got := a.Session().Profile().ContractThreshold; got != 85 {
		t.Errorf("session contract threshold = %f, want 85", got)
	}
}

func TestApp_SetExercise_StopsPreviousSession(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.SetExercise(exercise.KindPushup); err != nil {
		t.Fatal(err)
	}
	first := a.Session()
	first.Start()

	if err := a.SetExercise(exercise.KindSitup); err != nil {
		t.Fatal(err)
	}

	if first.Running() {
		t.Error("previous session should be stopped when the exercise changes")
	}
	if a.Session().Profile().Kind != exercise.KindSitup {
		t.Errorf("current session kind = %s, want %s", a.Session().Profile().Kind, exercise.KindSitup)
	}
}

func TestApp_SessionCountsReps(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.SetExercise(exercise.KindPushup); err != nil {
		t.Fatal(err)
	}

	session := a.Session()
	session.Start()

	frames := []*pose.Frame{
		pose.PushupUpFrame(0),
		pose.PushupDownFrame(500),
		pose.PushupUpFrame(1000),
	}
	for _, f := range frames {
		session.OnFrame(f)
	}

	if got := session.Status().Count; got != 1 {
		t.Errorf("count = %d, want 1 after a full pushup", got)
	}
}

func TestApp_DispatchEvent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	a, s := newTestApp(t)

	// Install a feedback plugin that records the request it receives
	pluginDir := filepath.Join(a.FeedbackManager().PluginDir(), "recorder")
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name": "recorder", "executable": "recorder.sh", "events": ["rep"]}`
	if err := os.WriteFile(filepath.Join(pluginDir, "feedback.json"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	script := `#!/bin/sh
cat > request.json
echo '{"success":true}'
`
	if err := os.WriteFile(filepath.Join(pluginDir, "recorder.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	if err := a.DiscoverPlugins(); err != nil {
		t.Fatalf("DiscoverPlugins() error = %v", err)
	}

	if err := s.Bindings().Create(&store.Binding{
		ID:         "b1",
		Event:      store.EventRep,
		PluginName: "recorder",
		Enabled:    true,
	}); err != nil {
		t.Fatalf("Create binding error = %v", err)
	}

	a.dispatchEvent(store.EventRep, exercise.Status{
		Exercise: exercise.KindPushup,
		Count:    3,
		Phase:    exercise.PhaseExtended,
	})

	// Plugin execution is asynchronous
	recorded := filepath.Join(pluginDir, "request.json")
	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, err := os.Stat(recorded); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("plugin was never invoked")
		}
		time.Sleep(20 * time.Millisecond)
	}

	data, err := os.ReadFile(recorded)
	if err != nil {
		t.Fatal(err)
	}
	if want := `"count":3`; !strings.Contains(string(data), want) {
		t.Errorf("recorded request %s does not contain %s", data, want)
	}
}

func TestApp_DispatchEvent_DisabledBinding(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	a, s := newTestApp(t)

	pluginDir := filepath.Join(a.FeedbackManager().PluginDir(), "recorder")
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name": "recorder", "executable": "recorder.sh"}`
	if err := os.WriteFile(filepath.Join(pluginDir, "feedback.json"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	script := `#!/bin/sh
cat > request.json
echo '{"success":true}'
`
	if err := os.WriteFile(filepath.Join(pluginDir, "recorder.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	if err := a.DiscoverPlugins(); err != nil {
		t.Fatal(err)
	}

	if err := s.Bindings().Create(&store.Binding{
		ID:         "b1",
		Event:      store.EventRep,
		PluginName: "recorder",
		Enabled:    false,
	}); err != nil {
		t.Fatal(err)
	}

	a.dispatchEvent(store.EventRep, exercise.Status{Exercise: exercise.KindPushup, Count: 1})

	time.Sleep(200 * time.Millisecond)
	if _, err := os.Stat(filepath.Join(pluginDir, "request.json")); err == nil {
		t.Error("disabled binding should not invoke the plugin")
	}
}
