// Package tray provides the system tray interface for the Vyayam exercise tracker.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/vyayam/internal/exercise"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onExercise func(kind exercise.Kind)
	onSettings func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuCount  *systray.MenuItem
	menuPushup *systray.MenuItem
	menuSitup  *systray.MenuItem
}

// New creates a new Tray instance with tracking enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback for when tracking is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnExercise sets the callback for when an exercise is picked from the menu.
func (t *Tray) OnExercise(fn func(kind exercise.Kind)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExercise = fn
}

// OnSettings sets the callback for the settings menu item.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Vyayam")
	systray.SetTooltip("Vyayam Exercise Tracker")

	t.menuToggle = systray.AddMenuItem("● Tracking", "Toggle exercise tracking")
	systray.AddSeparator()

	t.menuCount = systray.AddMenuItem("Reps: 0", "Current rep count")
	t.menuCount.Disable()
	systray.AddSeparator()

	t.menuPushup = systray.AddMenuItem("Pushups", "Track pushups")
	t.menuSitup = systray.AddMenuItem("Situps", "Track situps")
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Dashboard...", "Open the web dashboard")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Vyayam")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuPushup.ClickedCh:
				t.handleExercise(exercise.KindPushup)
			case <-t.menuSitup.ClickedCh:
				t.handleExercise(exercise.KindSitup)
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleExercise handles an exercise picker click.
func (t *Tray) handleExercise(kind exercise.Kind) {
	t.mu.RLock()
	callback := t.onExercise
	t.mu.RUnlock()

	if callback != nil {
		callback(kind)
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetCount updates the rep count display in the menu.
func (t *Tray) SetCount(count uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuCount != nil {
		t.menuCount.SetTitle(fmt.Sprintf("Reps: %d", count))
	}
}

// IsEnabled returns the current tracking state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
