package network

import (
	"testing"
)

const sampleNetwork = `{
	"nodes": [
		{"id": "J1", "x": 0, "y": 0, "type": "junction", "elevation": 101.5},
		{"id": "J2", "x": 10, "y": 0},
		{"id": "R1", "x": 0, "y": 10, "type": "reservoir"},
		{"id": "T1", "x": 10, "y": 10, "type": "tank"},
		{"id": "J1", "x": 99, "y": 99}
	],
	"links": [
		{"id": "P1", "start_node": "J1", "end_node": "J2", "length": 10, "diameter": 0.3},
		{"id": "P2", "start_node": "J2", "end_node": "T1"},
		{"id": "P3", "start_node": "J1", "end_node": "MISSING"}
	],
	"sensors": ["J2", "NOPE"]
}`

func TestDecode(t *testing.T) {
	n, err := Decode([]byte(sampleNetwork))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if n.NodeCount() != 4 {
		t.Errorf("NodeCount = %d, want 4 (duplicate J1 dropped)", n.NodeCount())
	}
	if got := n.Nodes["J1"].Pos.X; got != 0 {
		t.Errorf("duplicate id kept later occurrence: J1.x = %v", got)
	}
	if !n.Nodes["J1"].HasElev || n.Nodes["J1"].Elevation != 101.5 {
		t.Errorf("J1 elevation = %+v", n.Nodes["J1"])
	}
	if n.Nodes["J2"].HasElev {
		t.Error("J2 has no elevation in the payload")
	}

	if got := n.Nodes["R1"].Kind; got != KindReservoir {
		t.Errorf("R1 kind = %v, want reservoir", got)
	}
	if got := n.Nodes["J2"].Kind; got != KindJunction {
		t.Errorf("missing type should default to junction, got %v", got)
	}

	if len(n.Sensors) != 1 || n.Sensors[0] != "J2" {
		t.Errorf("Sensors = %v, want [J2] (unresolvable id dropped)", n.Sensors)
	}
}

func TestDecodeLinkAliases(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"links with start_node/end_node", `{"nodes":[{"id":"a","x":0,"y":0},{"id":"b","x":1,"y":1}],"links":[{"id":"l","start_node":"a","end_node":"b"}]}`},
		{"links with start/end", `{"nodes":[{"id":"a","x":0,"y":0},{"id":"b","x":1,"y":1}],"links":[{"id":"l","start":"a","end":"b"}]}`},
		{"edges array", `{"nodes":[{"id":"a","x":0,"y":0},{"id":"b","x":1,"y":1}],"edges":[{"id":"l","start_node":"a","end_node":"b"}]}`},
		{"pipes array", `{"nodes":[{"id":"a","x":0,"y":0},{"id":"b","x":1,"y":1}],"pipes":[{"id":"l","start_node":"a","end_node":"b"}]}`},
		{"sensor_ids alias", `{"nodes":[{"id":"a","x":0,"y":0},{"id":"b","x":1,"y":1}],"links":[{"id":"l","start_node":"a","end_node":"b"}],"sensor_ids":["a"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Decode([]byte(tt.payload))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			resolved, dropped := n.ResolvedLinks()
			if len(resolved) != 1 || dropped != 0 {
				t.Errorf("resolved %d links (%d dropped), want 1 (0 dropped)", len(resolved), dropped)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{"nodes": "nope"`)); err == nil {
		t.Error("truncated payload should fail")
	}
}

func TestResolvedLinksDropsDangling(t *testing.T) {
	n, err := Decode([]byte(sampleNetwork))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	resolved, dropped := n.ResolvedLinks()
	if len(resolved) != 2 {
		t.Errorf("resolved %d links, want 2", len(resolved))
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	for _, l := range resolved {
		if l.ID == "P3" {
			t.Error("P3 references a missing node and must not resolve")
		}
	}
}

func TestLinkByID(t *testing.T) {
	n, _ := Decode([]byte(sampleNetwork))

	l, ok := n.LinkByID("P1")
	if !ok {
		t.Fatal("P1 should resolve")
	}
	mid := l.Midpoint()
	if mid.X != 5 || mid.Y != 0 {
		t.Errorf("P1 midpoint = %+v, want (5, 0)", mid)
	}

	if _, ok := n.LinkByID("P3"); ok {
		t.Error("dangling P3 should not resolve")
	}
	if _, ok := n.LinkByID("nope"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		in   string
		want NodeKind
	}{
		{"junction", KindJunction},
		{"Junction", KindJunction},
		{"RESERVOIR", KindReservoir},
		{"tank", KindTank},
		{"", KindJunction},
		{"pumpstation", KindJunction}, // unknown kinds degrade to junction
	}
	for _, tt := range tests {
		if got := ParseNodeKind(tt.in); got != tt.want {
			t.Errorf("ParseNodeKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStyleForCoversAllKinds(t *testing.T) {
	for _, k := range []NodeKind{KindJunction, KindReservoir, KindTank} {
		style := StyleFor(k)
		if style.Radius <= 0 {
			t.Errorf("kind %v has no style", k)
		}
	}
	// Reservoirs and tanks are visually emphasized over junctions.
	if StyleFor(KindReservoir).Radius <= StyleFor(KindJunction).Radius {
		t.Error("reservoir marker should be larger than junction")
	}
	if !StyleFor(KindTank).Square {
		t.Error("tank marker should be square")
	}
}

func TestConnectivity(t *testing.T) {
	payload := `{
		"nodes": [
			{"id": "a", "x": 0, "y": 0}, {"id": "b", "x": 1, "y": 0},
			{"id": "c", "x": 2, "y": 0}, {"id": "d", "x": 3, "y": 0},
			{"id": "lone", "x": 9, "y": 9}
		],
		"links": [
			{"id": "l1", "start_node": "a", "end_node": "b"},
			{"id": "l2", "start_node": "c", "end_node": "d"},
			{"id": "l3", "start_node": "c", "end_node": "ghost"}
		]
	}`
	n, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	report := n.Connectivity()
	if report.Components != 2 {
		t.Errorf("Components = %d, want 2 ({a,b} and {c,d})", report.Components)
	}
	if report.IsolatedNodes != 1 {
		t.Errorf("IsolatedNodes = %d, want 1 (lone)", report.IsolatedNodes)
	}
	if report.DroppedLinks != 1 {
		t.Errorf("DroppedLinks = %d, want 1", report.DroppedLinks)
	}
}

func TestValidate(t *testing.T) {
	if _, err := Decode([]byte(`{"nodes":[{"id":"","x":0,"y":0}],"links":[]}`)); err != nil {
		t.Errorf("empty-id nodes are skipped, not an error: %v", err)
	}

	// Dangling links are a render-time concern, never a load error.
	n, err := Decode([]byte(`{"nodes":[{"id":"a","x":0,"y":0}],"links":[{"id":"l","start_node":"a","end_node":"zz"}]}`))
	if err != nil {
		t.Fatalf("dangling link rejected at load: %v", err)
	}
	if len(n.Links) != 1 {
		t.Errorf("link dropped at load time; resolution is deferred")
	}
}
