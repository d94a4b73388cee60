// Package main provides a session log feedback plugin.
// It appends one line per workout event to a plain text file, useful for
// reviewing a workout afterwards without any database tooling.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
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

// LogConfig holds the per-binding configuration.
type LogConfig struct {
	Path string `json:"path"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var cfg LogConfig
	if len(req.Config) > 0 {
		json.Unmarshal(req.Config, &cfg)
	}

	path := cfg.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			writeErrorResponse(fmt.Sprintf("no log path configured and no home directory: %v", err))
			return
		}
		path = filepath.Join(home, ".vyayam", "session.log")
	}

	if err := appendLine(path, &req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to write log: %v", err))
		return
	}

	writeSuccessResponse()
}

// appendLine writes one formatted event line to the log file.
func appendLine(path string, req *Request) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s %s count=%d phase=%s",
		time.Now().Format(time.RFC3339), req.Event, req.Exercise, req.Count, req.Phase)
	if req.Message != "" {
		line += " message=" + req.Message
	}

	_, err = fmt.Fprintln(f, line)
	return err
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
