// Package feedback provides discovery and execution of external feedback
// plugins that react to workout events such as counted reps and form faults.
package feedback

import "encoding/json"

// Manifest describes a feedback plugin's metadata and the events it handles.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Events       []string        `json:"events"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request is sent to a plugin on each workout event it is bound to.
type Request struct {
	Event    string          `json:"event"`
	Exercise string          `json:"exercise"`
	Count    uint64          `json:"count"`
	Phase    string          `json:"phase"`
	Message  string          `json:"message"`
	Config   json.RawMessage `json:"config"`
}

// Response is what a plugin writes to stdout after handling a request.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered feedback plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// HandlesEvent reports whether the plugin declares the given event in its
// manifest. An empty event list means the plugin accepts every event.
func (p *Plugin) HandlesEvent(event string) bool {
	if len(p.Manifest.Events) == 0 {
		return true
	}
	for _, e := range p.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
