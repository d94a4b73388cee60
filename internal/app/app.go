// Package app wires the capture, pose detection, and rep counting pieces of
// Vyayam into a single tracking pipeline.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/vyayam/internal/capture"
	"github.com/ayusman/vyayam/internal/exercise"
	"github.com/ayusman/vyayam/internal/feedback"
	"github.com/ayusman/vyayam/internal/pose"
	"github.com/ayusman/vyayam/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while nobody is moving in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active tracking.
	ActiveFPS = 15
	// IdleTimeoutMs is how long motion must be absent before dropping back to idle.
	IdleTimeoutMs = 2000
	// FeedbackTimeoutMs bounds a single feedback plugin invocation.
	FeedbackTimeoutMs = 5000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
}

// App orchestrates the tracking pipeline and feedback dispatch.
type App struct {
	config       Config
	camera       capture.Camera
	motion       *capture.MotionDetector
	detector     pose.Detector
	session      *exercise.Session
	feedbackMgr  *feedback.Manager
	feedbackExec *feedback.Executor
	enabled      bool
	mu           sync.RWMutex
	stopCh       chan struct{}
}

// New creates an App with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:       config,
		camera:       capture.NewCamera(config.CameraID),
		motion:       capture.NewMotionDetector(motionThreshold),
		feedbackMgr:  feedback.NewManager(config.PluginDir),
		feedbackExec: feedback.NewExecutor(FeedbackTimeoutMs),
		enabled:      false,
	}

	// Try MediaPipe first, fall back to the mock detector
	if mp, err := pose.NewMediaPipeDetector(pose.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = pose.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables exercise tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether exercise tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d pose.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetExercise selects the exercise to track. The profile comes from the
// database when one is stored for the kind, otherwise from the builtins.
// A running session for the previous exercise is stopped first.
func (a *App) SetExercise(kind exercise.Kind) error {
	profile, err := a.lookupProfile(kind)
	if err != nil {
		return err
	}

	session, err := exercise.NewSession(profile)
	if err != nil {
		return fmt.Errorf("invalid profile for %s: %w", kind, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil && a.session.Running() {
		a.session.Stop()
	}
	a.session = session

	log.Printf("Selected exercise: %s", kind)
	return nil
}

func (a *App) lookupProfile(kind exercise.Kind) (*exercise.Profile, error) {
	if a.config.Store != nil {
		stored, err := a.config.Store.Profiles().GetByKind(kind)
		if err == nil {
			return stored.Definition, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return exercise.BuiltinProfile(kind)
}

// Session returns the current exercise session, or nil when no exercise
// has been selected yet.
func (a *App) Session() *exercise.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// DiscoverPlugins scans the plugin directory for feedback plugins.
func (a *App) DiscoverPlugins() error {
	return a.feedbackMgr.Discover()
}

// Start opens the camera and begins the tracking pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the tracking pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// FeedbackManager returns the feedback plugin manager.
func (a *App) FeedbackManager() *feedback.Manager {
	return a.feedbackMgr
}

// Detector returns the pose detector.
func (a *App) Detector() pose.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// dispatchEvent runs every enabled feedback binding for the given event.
// Plugin failures are logged and never interrupt the pipeline.
func (a *App) dispatchEvent(event store.Event, status exercise.Status) {
	if a.config.Store == nil {
		return
	}

	bindings, err := a.config.Store.Bindings().ListEnabledByEvent(event)
	if err != nil {
		log.Printf("Failed to load bindings for %s: %v", event, err)
		return
	}

	for _, b := range bindings {
		plugin, err := a.feedbackMgr.Get(b.PluginName)
		if err != nil {
			log.Printf("Binding %s references unknown plugin %q", b.ID, b.PluginName)
			continue
		}
		if !plugin.HandlesEvent(string(event)) {
			continue
		}

		req := &feedback.Request{
			Event:    string(event),
			Exercise: string(status.Exercise),
			Count:    status.Count,
			Phase:    string(status.Phase),
			Message:  status.Message,
			Config:   b.Config,
		}

		go func(p *feedback.Plugin, req *feedback.Request) {
			start := time.Now()
			resp, err := a.feedbackExec.Execute(p, req)
			if err != nil {
				log.Printf("Feedback plugin %s failed: %v", p.Manifest.Name, err)
				return
			}
			if !resp.Success {
				log.Printf("Feedback plugin %s reported error: %s", p.Manifest.Name, resp.Error)
				return
			}
			log.Printf("Feedback plugin %s handled %s in %v", p.Manifest.Name, req.Event, time.Since(start))
		}(plugin, req)
	}
}
