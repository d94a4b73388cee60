package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ayusman/vyayam/internal/app"
	"github.com/ayusman/vyayam/internal/config"
	"github.com/ayusman/vyayam/internal/exercise"
	"github.com/ayusman/vyayam/internal/server"
	"github.com/ayusman/vyayam/internal/store"
	"github.com/ayusman/vyayam/internal/tray"
)

func main() {
	fmt.Println("Vyayam - Exercise Rep Counter")

	cfgPath := os.Getenv("VYAYAM_CONFIG")
	if cfgPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		cfgPath = filepath.Join(home, ".vyayam", "config.yaml")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(cfg.Data.Dir, "vyayam.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if err := st.Profiles().Seed(); err != nil {
		log.Fatalf("Failed to seed builtin profiles: %v", err)
	}

	a := app.New(app.Config{
		Store:        st,
		PluginDir:    cfg.Plugins.Dir,
		CameraID:     cfg.Camera.DeviceID,
		MotionThresh: cfg.Camera.MotionThreshold,
	})

	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	// Restore the last selected exercise, defaulting to pushups
	kind := exercise.KindPushup
	if v, err := st.Settings().Get(store.SettingDefaultExercise); err == nil && v != "" {
		kind = exercise.Kind(v)
	}
	if err := a.SetExercise(kind); err != nil {
		log.Printf("Failed to select exercise %s: %v", kind, err)
	}

	if err := a.Start(); err != nil {
		log.Printf("Failed to start tracking pipeline: %v", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	addr := cfg.Server.Addr()
	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnExercise(func(kind exercise.Kind) {
		if err := a.SetExercise(kind); err != nil {
			log.Printf("Failed to switch exercise: %v", err)
			return
		}
		if err := st.Settings().Set(store.SettingDefaultExercise, string(kind)); err != nil {
			log.Printf("Failed to save exercise preference: %v", err)
		}
	})
	t.OnSettings(func() {
		openBrowser("http://" + addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Keep the tray rep counter fresh
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if session := a.Session(); session != nil {
				t.SetCount(session.Status().Count)
			}
		}
	}()

	// Blocks until quit
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.vyayam/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".vyayam", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
