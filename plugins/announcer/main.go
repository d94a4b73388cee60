// Package main provides a voice announcer feedback plugin.
// It speaks the rep count and form corrections using the system
// text-to-speech command.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// Request represents the input from the feedback executor.
type Request struct {
	Event    string          `json:"event"`
	Exercise string          `json:"exercise"`
	Count    uint64          `json:"count"`
	Phase    string          `json:"phase"`
	Message  string          `json:"message"`
	Config   json.RawMessage `json:"config"`
}

// Response represents the output to the feedback executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// AnnouncerConfig holds the per-binding configuration.
type AnnouncerConfig struct {
	Voice string `json:"voice"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var cfg AnnouncerConfig
	if len(req.Config) > 0 {
		json.Unmarshal(req.Config, &cfg)
	}

	text := phraseFor(&req)
	if text == "" {
		writeSuccessResponse()
		return
	}

	if err := speak(text, cfg.Voice); err != nil {
		writeErrorResponse(fmt.Sprintf("speech failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// phraseFor picks what to say for the event.
func phraseFor(req *Request) string {
	switch req.Event {
	case "rep":
		return strconv.FormatUint(req.Count, 10)
	case "form":
		return req.Message
	default:
		return ""
	}
}

// speak runs the platform text-to-speech command.
func speak(text, voice string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		if voice != "" {
			cmd = exec.Command("say", "-v", voice, text)
		} else {
			cmd = exec.Command("say", text)
		}
	default:
		if voice != "" {
			cmd = exec.Command("espeak", "-v", voice, text)
		} else {
			cmd = exec.Command("espeak", text)
		}
	}
	return cmd.Run()
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: true,
	})
}
