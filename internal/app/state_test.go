package app

import (
	"os"
	"path/filepath"
	"testing"

	"leak-viewer/internal/layers"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const (
	netA = `{"nodes":[{"id":"a","x":0,"y":0},{"id":"b","x":1,"y":1}],"links":[{"id":"l","start_node":"a","end_node":"b"}]}`
	netB = `{"nodes":[{"id":"c","x":5,"y":5}],"links":[]}`

	predsJSON = `[{"detected_node":"a","estimated_cusum_severity":0.7}]`
	gtJSON    = `{"leaks":[{"pipe_id":"l","x":0.5,"y":0.5}]}`
)

func TestLoadNetworkEventSemantics(t *testing.T) {
	dir := t.TempDir()
	pathA := writeFile(t, dir, "a.json", netA)
	pathB := writeFile(t, dir, "b.json", netB)

	s := NewState()
	var loaded, reloaded int
	s.On(EventNetworkLoaded, func(interface{}) { loaded++ })
	s.On(EventNetworkReloaded, func(interface{}) { reloaded++ })

	// New path: identity change.
	if err := s.LoadNetwork(pathA); err != nil {
		t.Fatal(err)
	}
	if loaded != 1 || reloaded != 0 {
		t.Fatalf("after first load: loaded=%d reloaded=%d", loaded, reloaded)
	}

	// Same path rewritten: reload, viewport must be preserved.
	if err := s.LoadNetwork(pathA); err != nil {
		t.Fatal(err)
	}
	if loaded != 1 || reloaded != 1 {
		t.Fatalf("after same-path reload: loaded=%d reloaded=%d", loaded, reloaded)
	}

	// Different path: identity change again.
	if err := s.LoadNetwork(pathB); err != nil {
		t.Fatal(err)
	}
	if loaded != 2 || reloaded != 1 {
		t.Fatalf("after path switch: loaded=%d reloaded=%d", loaded, reloaded)
	}
}

func TestLoadNetworkFailureKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", netA)
	bad := writeFile(t, dir, "bad.json", `{"nodes": [`)

	s := NewState()
	if err := s.LoadNetwork(good); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadNetwork(bad); err == nil {
		t.Fatal("malformed network should fail")
	}

	n, _, _ := s.Snapshot()
	if n == nil || n.NodeCount() != 2 {
		t.Error("failed load replaced the previous snapshot")
	}
	if s.NetworkPath != good {
		t.Errorf("NetworkPath = %q, want %q", s.NetworkPath, good)
	}
}

func TestReloadPath(t *testing.T) {
	dir := t.TempDir()
	netPath := writeFile(t, dir, "net.json", netA)
	predPath := writeFile(t, dir, "preds.json", predsJSON)

	s := NewState()
	if err := s.LoadNetwork(netPath); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadPredictions(predPath); err != nil {
		t.Fatal(err)
	}

	var overlays int
	s.On(EventOverlaysChanged, func(interface{}) { overlays++ })

	if err := s.ReloadPath(predPath); err != nil {
		t.Fatal(err)
	}
	if overlays != 1 {
		t.Errorf("overlay reload fired %d events, want 1", overlays)
	}

	// Unknown paths are silently ignored.
	if err := s.ReloadPath(filepath.Join(dir, "unrelated.json")); err != nil {
		t.Errorf("unknown path should be a no-op: %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	netPath := writeFile(t, dir, "net.json", netA)
	predPath := writeFile(t, dir, "preds.json", predsJSON)
	gtPath := writeFile(t, dir, "gt.json", gtJSON)
	sessionPath := filepath.Join(dir, "session.leakview")

	s := NewState()
	if err := s.LoadNetwork(netPath); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadPredictions(predPath); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadGroundTruth(gtPath); err != nil {
		t.Fatal(err)
	}
	s.SetFlags(layers.Flags{ShowGroundTruth: true, ShowPredictions: false, ShowErrorLines: true})

	if err := s.SaveSession(sessionPath); err != nil {
		t.Fatal(err)
	}
	if s.Modified {
		t.Error("save should clear the modified flag")
	}

	restored := NewState()
	if err := restored.LoadSession(sessionPath); err != nil {
		t.Fatal(err)
	}

	n, preds, gt := restored.Snapshot()
	if n == nil || n.NodeCount() != 2 {
		t.Error("network not restored")
	}
	if len(preds) != 1 {
		t.Error("predictions not restored")
	}
	if gt == nil || len(gt.Leaks) != 1 {
		t.Error("ground truth not restored")
	}
	if restored.Flags.ShowPredictions {
		t.Error("flags not restored from session")
	}
	if restored.Modified {
		t.Error("freshly loaded session should not be modified")
	}
}

func TestLoadSessionMissingSnapshot(t *testing.T) {
	dir := t.TempDir()
	netPath := writeFile(t, dir, "net.json", netA)
	sessionPath := writeFile(t, dir, "s.leakview",
		`{"version":1,"network":"`+netPath+`","predictions":"`+filepath.Join(dir, "gone.json")+`"}`)

	s := NewState()
	err := s.LoadSession(sessionPath)
	if err == nil {
		t.Error("missing predictions file should surface an error")
	}

	// The readable snapshot still loads.
	n, _, _ := s.Snapshot()
	if n == nil || n.NodeCount() != 2 {
		t.Error("network should load despite the missing overlay")
	}
}

func TestWatchedPaths(t *testing.T) {
	dir := t.TempDir()
	netPath := writeFile(t, dir, "net.json", netA)

	s := NewState()
	if got := s.WatchedPaths(); len(got) != 0 {
		t.Errorf("empty state watches %v", got)
	}
	if err := s.LoadNetwork(netPath); err != nil {
		t.Fatal(err)
	}
	got := s.WatchedPaths()
	if len(got) != 1 || got[0] != netPath {
		t.Errorf("WatchedPaths = %v, want [%s]", got, netPath)
	}
}
