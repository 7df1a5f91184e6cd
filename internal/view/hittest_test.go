package view

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"leak-viewer/internal/network"
	"leak-viewer/pkg/geometry"
)

func testNetwork(positions map[string]geometry.Point2D, order []string) *network.Network {
	n := &network.Network{Nodes: make(map[string]network.Node, len(positions))}
	for _, id := range order {
		n.Nodes[id] = network.Node{ID: id, Pos: positions[id]}
		n.Order = append(n.Order, id)
	}
	return n
}

// screenOf measures a node's screen position through the projection so
// tests can place the pointer relative to it in exact pixel distances.
func screenOf(p Projection, tr Transform, n *network.Network, id string) geometry.Point2D {
	return p.WorldToScreen(n.Nodes[id].Pos, tr)
}

func TestHitTestNearestNode(t *testing.T) {
	n := testNetwork(map[string]geometry.Point2D{
		"a": {X: 0, Y: 0},
		"b": {X: 10, Y: 0},
		"c": {X: 0, Y: 10},
	}, []string{"a", "b", "c"})
	p := NewProjection(geometry.ComputeBounds(n.NodePoints()), geometry.Size{Width: 800, Height: 600})
	tr := IdentityTransform()

	for _, id := range []string{"a", "b", "c"} {
		got := HitTest(screenOf(p, tr, n, id), n, p, tr, DefaultHitThreshold)
		if got != id {
			t.Errorf("pointer on %s hit %q", id, got)
		}
	}

	// Slightly off a node but inside the threshold still picks it.
	near := screenOf(p, tr, n, "b").Add(geometry.Point2D{X: 5, Y: -5})
	if got := HitTest(near, n, p, tr, DefaultHitThreshold); got != "b" {
		t.Errorf("near-b pointer hit %q, want b", got)
	}
}

func TestHitTestThresholdBoundary(t *testing.T) {
	n := testNetwork(map[string]geometry.Point2D{"a": {X: 0, Y: 0}}, []string{"a"})
	p := NewProjection(geometry.ComputeBounds(n.NodePoints()), geometry.Size{Width: 400, Height: 400})
	tr := IdentityTransform()
	center := screenOf(p, tr, n, "a")

	inside := center.Add(geometry.Point2D{X: DefaultHitThreshold - 0.5})
	if got := HitTest(inside, n, p, tr, DefaultHitThreshold); got != "a" {
		t.Errorf("pointer inside threshold hit %q, want a", got)
	}

	// Exactly at the threshold is a miss: the comparison is strict.
	atEdge := center.Add(geometry.Point2D{X: DefaultHitThreshold})
	if got := HitTest(atEdge, n, p, tr, DefaultHitThreshold); got != "" {
		t.Errorf("pointer exactly at threshold hit %q, want none", got)
	}

	outside := center.Add(geometry.Point2D{X: DefaultHitThreshold + 1})
	if got := HitTest(outside, n, p, tr, DefaultHitThreshold); got != "" {
		t.Errorf("pointer outside threshold hit %q, want none", got)
	}
}

func TestHitTestTieBreaksFirstInOrder(t *testing.T) {
	// Two co-located nodes are exactly equidistant from any pointer: the
	// first in snapshot order wins, and the answer is stable across
	// repeated calls.
	n := testNetwork(map[string]geometry.Point2D{
		"first":  {X: 3, Y: 3},
		"second": {X: 3, Y: 3},
		"other":  {X: 0, Y: 0},
	}, []string{"first", "second", "other"})
	p := NewProjection(geometry.ComputeBounds(n.NodePoints()), geometry.Size{Width: 500, Height: 500})
	tr := IdentityTransform()

	pointer := screenOf(p, tr, n, "first").Add(geometry.Point2D{X: 3, Y: 4})
	for i := 0; i < 10; i++ {
		if got := HitTest(pointer, n, p, tr, DefaultHitThreshold); got != "first" {
			t.Fatalf("call %d: tie resolved to %q, want first", i, got)
		}
	}
}

func TestHitTestEmptyAndNil(t *testing.T) {
	p := NewProjection(geometry.UnitBounds(), geometry.Size{Width: 100, Height: 100})
	tr := IdentityTransform()
	pointer := geometry.Point2D{X: 50, Y: 50}

	if got := HitTest(pointer, nil, p, tr, DefaultHitThreshold); got != "" {
		t.Errorf("nil network hit %q", got)
	}
	if got := HitTest(pointer, &network.Network{}, p, tr, DefaultHitThreshold); got != "" {
		t.Errorf("empty network hit %q", got)
	}
}

func TestHitTestZoomShrinksWorldReach(t *testing.T) {
	// The threshold is a screen-space constant, so zooming in shrinks the
	// world-space distance it covers.
	n := testNetwork(map[string]geometry.Point2D{"a": {X: 0, Y: 0}}, []string{"a"})
	p := NewProjection(geometry.Bounds{MinX: -10, MaxX: 10, MinY: -10, MaxY: 10}, geometry.Size{Width: 400, Height: 400})
	offWorld := geometry.Point2D{X: 2, Y: 0}

	// FitScale is 17 px per world unit; at minimum zoom a 2-unit world
	// offset is 3.4 px, inside the threshold.
	zoomedOut := Transform{Scale: MinScale}
	pointer := p.WorldToScreen(offWorld, zoomedOut)
	if got := HitTest(pointer, n, p, zoomedOut, DefaultHitThreshold); got != "a" {
		t.Errorf("zoomed out: 2-unit offset hit %q, want a", got)
	}

	// At maximum zoom the same world offset is 340 px, far outside.
	zoomedIn := Transform{Scale: MaxScale}
	pointer = p.WorldToScreen(offWorld, zoomedIn)
	if got := HitTest(pointer, n, p, zoomedIn, DefaultHitThreshold); got != "" {
		t.Errorf("zoomed in: 2-unit offset hit %q, want none", got)
	}
}

func TestGridMatchesLinearScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(1, 200).Draw(t, "count")
		positions := make(map[string]geometry.Point2D, count)
		order := make([]string, 0, count)
		for i := 0; i < count; i++ {
			id := fmt.Sprintf("n%03d", i)
			positions[id] = geometry.Point2D{
				X: rapid.Float64Range(0, 100).Draw(t, "x"),
				Y: rapid.Float64Range(0, 100).Draw(t, "y"),
			}
			order = append(order, id)
		}
		n := testNetwork(positions, order)
		p := NewProjection(geometry.ComputeBounds(n.NodePoints()), geometry.Size{Width: 1000, Height: 800})
		tr := Transform{Scale: rapid.Float64Range(MinScale, MaxScale).Draw(t, "scale")}

		pointer := geometry.Point2D{
			X: rapid.Float64Range(0, 1000).Draw(t, "px"),
			Y: rapid.Float64Range(0, 800).Draw(t, "py"),
		}

		linear := linearHitTest(pointer, n, p, tr, DefaultHitThreshold)
		grid := gridHitTest(pointer, n, p, tr, DefaultHitThreshold)
		if linear != grid {
			t.Fatalf("grid returned %q, linear returned %q", grid, linear)
		}
	})
}
