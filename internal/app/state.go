// Package app provides application state, session files, and events.
package app

import (
	"fmt"
	"os"
	"sync"

	json "github.com/goccy/go-json"

	"leak-viewer/internal/layers"
	"leak-viewer/internal/network"
	"leak-viewer/internal/overlay"
)

// State holds the loaded snapshots and session metadata. Snapshots are
// immutable once loaded; replacing one emits an event so the UI can
// rebuild its draw list. The viewport itself lives in the canvas widget
// and is intentionally NOT part of this state: it survives overlay
// reloads and only resets when the network identity changes.
type State struct {
	mu sync.RWMutex

	SessionPath string
	Modified    bool

	NetworkPath     string
	PredictionsPath string
	GroundTruthPath string

	Network     *network.Network
	Predictions []overlay.Prediction
	GroundTruth *overlay.GroundTruth

	Flags layers.Flags

	listeners map[EventType][]EventListener
}

// EventType identifies application events.
type EventType int

const (
	EventSessionLoaded EventType = iota
	EventSessionSaved
	EventNetworkLoaded   // payload: network path; viewport must reset
	EventNetworkReloaded // payload: network path; same identity, keep viewport
	EventOverlaysChanged
	EventFlagsChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates an empty state with default layer flags.
func NewState() *State {
	return &State{
		Flags:     layers.DefaultFlags(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// Snapshot returns the current data triple under the read lock.
func (s *State) Snapshot() (*network.Network, []overlay.Prediction, *overlay.GroundTruth) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Network, s.Predictions, s.GroundTruth
}

// SetFlags replaces the visibility flags.
func (s *State) SetFlags(flags layers.Flags) {
	s.mu.Lock()
	s.Flags = flags
	s.mu.Unlock()
	s.Emit(EventFlagsChanged, flags)
}

// LoadNetwork loads a network snapshot. When the path differs from the
// currently loaded one the network identity changes and
// EventNetworkLoaded fires (viewport reset); reloading the same path
// fires EventNetworkReloaded instead (viewport preserved).
func (s *State) LoadNetwork(path string) error {
	n, err := network.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}

	s.mu.Lock()
	samePath := s.NetworkPath == path
	s.Network = n
	s.NetworkPath = path
	s.mu.Unlock()

	s.SetModified(true)
	if samePath {
		s.Emit(EventNetworkReloaded, path)
	} else {
		s.Emit(EventNetworkLoaded, path)
	}
	return nil
}

// LoadPredictions loads a predictions snapshot.
func (s *State) LoadPredictions(path string) error {
	preds, err := overlay.LoadPredictionsFile(path)
	if err != nil {
		return fmt.Errorf("load predictions: %w", err)
	}

	s.mu.Lock()
	s.Predictions = preds
	s.PredictionsPath = path
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventOverlaysChanged, path)
	return nil
}

// LoadGroundTruth loads a ground-truth snapshot.
func (s *State) LoadGroundTruth(path string) error {
	gt, err := overlay.LoadGroundTruthFile(path)
	if err != nil {
		return fmt.Errorf("load ground truth: %w", err)
	}

	s.mu.Lock()
	s.GroundTruth = gt
	s.GroundTruthPath = path
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventOverlaysChanged, path)
	return nil
}

// ReloadPath re-reads whichever snapshot the path belongs to. Used by
// the file watcher; unknown paths are ignored.
func (s *State) ReloadPath(path string) error {
	s.mu.RLock()
	np, pp, gp := s.NetworkPath, s.PredictionsPath, s.GroundTruthPath
	s.mu.RUnlock()

	switch path {
	case np:
		return s.LoadNetwork(path)
	case pp:
		return s.LoadPredictions(path)
	case gp:
		return s.LoadGroundTruth(path)
	}
	return nil
}

// WatchedPaths returns the currently loaded snapshot paths.
func (s *State) WatchedPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var paths []string
	for _, p := range []string{s.NetworkPath, s.PredictionsPath, s.GroundTruthPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// SessionFile is the JSON structure of a .leakview session file. It
// records the snapshot paths and layer flags, not the data itself.
type SessionFile struct {
	Version         int    `json:"version"`
	NetworkPath     string `json:"network,omitempty"`
	PredictionsPath string `json:"predictions,omitempty"`
	GroundTruthPath string `json:"ground_truth,omitempty"`

	ShowGroundTruth bool `json:"show_ground_truth"`
	ShowPredictions bool `json:"show_predictions"`
	ShowErrorLines  bool `json:"show_error_lines"`
}

// LoadSession reads a session file and loads every snapshot it names.
// Snapshot load failures are returned but do not abort the remaining
// loads; the session opens with whatever data is still readable.
func (s *State) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var sess SessionFile
	if err := json.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}

	s.mu.Lock()
	s.SessionPath = path
	s.Flags = layers.Flags{
		ShowGroundTruth: sess.ShowGroundTruth,
		ShowPredictions: sess.ShowPredictions,
		ShowErrorLines:  sess.ShowErrorLines,
	}
	s.mu.Unlock()

	var firstErr error
	if sess.NetworkPath != "" {
		if err := s.LoadNetwork(sess.NetworkPath); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if sess.PredictionsPath != "" {
		if err := s.LoadPredictions(sess.PredictionsPath); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if sess.GroundTruthPath != "" {
		if err := s.LoadGroundTruth(sess.GroundTruthPath); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.mu.Lock()
	s.Modified = false
	s.mu.Unlock()
	s.Emit(EventSessionLoaded, path)
	return firstErr
}

// SaveSession writes the session file.
func (s *State) SaveSession(path string) error {
	s.mu.RLock()
	sess := SessionFile{
		Version:         1,
		NetworkPath:     s.NetworkPath,
		PredictionsPath: s.PredictionsPath,
		GroundTruthPath: s.GroundTruthPath,
		ShowGroundTruth: s.Flags.ShowGroundTruth,
		ShowPredictions: s.Flags.ShowPredictions,
		ShowErrorLines:  s.Flags.ShowErrorLines,
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	s.mu.Lock()
	s.SessionPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventSessionSaved, path)
	return nil
}
