package app

import (
	"log"
	"time"

	"github.com/ayusman/vyayam/internal/store"
)

// runPipeline is the main tracking loop.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Run pose detection on the frame
// 4. Feed the landmark frame to the current exercise session
// 5. Diff the session status against the previous one and dispatch
//    rep, phase, and form feedback events
// 6. After IdleTimeoutMs without motion, switch back to idle mode
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			session := a.Session()
			detector := a.Detector()

			if !activeMode || detector == nil || session == nil || !session.Running() {
				frame.Close()
				continue
			}

			prev := session.Status()

			landmarks, err := detector.Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting pose: %v", err)
				continue
			}
			if landmarks == nil {
				continue
			}

			session.OnFrame(landmarks)
			cur := session.Status()

			if cur.Count > prev.Count {
				log.Printf("Rep counted: %s #%d", cur.Exercise, cur.Count)
				a.dispatchEvent(store.EventRep, cur)
			}
			if cur.Phase != prev.Phase {
				a.dispatchEvent(store.EventPhase, cur)
			}
			if prev.FormValid && !cur.FormValid {
				log.Printf("Form fault: %s", cur.Message)
				a.dispatchEvent(store.EventForm, cur)
			}
		}
	}
}
