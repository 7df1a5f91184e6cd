// Package network holds the water-distribution network model: nodes,
// links (pipes), and pressure sensor placement. Instances are immutable
// snapshots owned by the loading context; the view layers only read them.
package network

import (
	"fmt"
	"image/color"

	"leak-viewer/pkg/colorutil"
	"leak-viewer/pkg/geometry"
)

// NodeKind is the closed set of node types found in EPANET-style models.
type NodeKind int

const (
	KindJunction NodeKind = iota
	KindReservoir
	KindTank
)

func (k NodeKind) String() string {
	switch k {
	case KindJunction:
		return "junction"
	case KindReservoir:
		return "reservoir"
	case KindTank:
		return "tank"
	default:
		return "unknown"
	}
}

// ParseNodeKind maps the upstream payload's type string to a NodeKind.
// Unrecognized or empty strings fall back to junction, the overwhelmingly
// common case in uploaded network files.
func ParseNodeKind(s string) NodeKind {
	switch s {
	case "reservoir", "Reservoir", "RESERVOIR":
		return KindReservoir
	case "tank", "Tank", "TANK":
		return KindTank
	default:
		return KindJunction
	}
}

// MarkerStyle describes how a node kind is drawn. The lookup is exhaustive
// over the NodeKind enum so adding a kind is a compile-time-checked change.
type MarkerStyle struct {
	Color  color.RGBA
	Radius float64
	Square bool // tanks draw as squares, everything else as circles
}

// StyleFor returns the marker style for a node kind.
func StyleFor(k NodeKind) MarkerStyle {
	switch k {
	case KindReservoir:
		return MarkerStyle{Color: colorutil.Cyan, Radius: 5}
	case KindTank:
		return MarkerStyle{Color: colorutil.Magenta, Radius: 5, Square: true}
	default:
		return MarkerStyle{Color: colorutil.Gray, Radius: 2.5}
	}
}

// Node is a single network node with world coordinates.
type Node struct {
	ID        string
	Pos       geometry.Point2D
	Kind      NodeKind
	Elevation float64
	HasElev   bool
}

// Link is a pipe between two nodes, referenced by node id.
type Link struct {
	ID       string
	StartID  string
	EndID    string
	Length   float64
	Diameter float64
}

// Network is an immutable snapshot of the topology.
type Network struct {
	Nodes   map[string]Node
	Order   []string // node ids in input order, for deterministic iteration
	Links   []Link
	Sensors []string
}

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int {
	return len(n.Nodes)
}

// IsSensor reports whether the node id carries a pressure sensor.
func (n *Network) IsSensor(id string) bool {
	for _, s := range n.Sensors {
		if s == id {
			return true
		}
	}
	return false
}

// NodePoints returns all node coordinates in input order, the input to
// bounds computation.
func (n *Network) NodePoints() []geometry.Point2D {
	pts := make([]geometry.Point2D, 0, len(n.Order))
	for _, id := range n.Order {
		pts = append(pts, n.Nodes[id].Pos)
	}
	return pts
}

// ResolvedLink is a link whose endpoints both resolve to known nodes.
type ResolvedLink struct {
	Link
	Start geometry.Point2D
	End   geometry.Point2D
}

// Midpoint returns the world midpoint of the pipe, used for ground-truth
// placement when only a pipe id is known.
func (r ResolvedLink) Midpoint() geometry.Point2D {
	return r.Start.Midpoint(r.End)
}

// ResolvedLinks returns the links whose endpoints both exist, with
// coordinates attached, and the number of links dropped. Links with
// unknown endpoints are expected in user-uploaded files and are skipped,
// never treated as an error.
func (n *Network) ResolvedLinks() ([]ResolvedLink, int) {
	resolved := make([]ResolvedLink, 0, len(n.Links))
	dropped := 0
	for _, l := range n.Links {
		start, okS := n.Nodes[l.StartID]
		end, okE := n.Nodes[l.EndID]
		if !okS || !okE {
			dropped++
			continue
		}
		resolved = append(resolved, ResolvedLink{Link: l, Start: start.Pos, End: end.Pos})
	}
	return resolved, dropped
}

// LinkByID returns the resolved link with the given id, if both its
// endpoints are known.
func (n *Network) LinkByID(id string) (ResolvedLink, bool) {
	for _, l := range n.Links {
		if l.ID != id {
			continue
		}
		start, okS := n.Nodes[l.StartID]
		end, okE := n.Nodes[l.EndID]
		if !okS || !okE {
			return ResolvedLink{}, false
		}
		return ResolvedLink{Link: l, Start: start.Pos, End: end.Pos}, true
	}
	return ResolvedLink{}, false
}

// Validate checks structural sanity of the snapshot: node ids must be
// unique and non-empty. Dangling link endpoints are deliberately NOT an
// error (they are dropped at render time).
func (n *Network) Validate() error {
	if len(n.Order) != len(n.Nodes) {
		return fmt.Errorf("node order/index mismatch: %d vs %d", len(n.Order), len(n.Nodes))
	}
	for _, id := range n.Order {
		if id == "" {
			return fmt.Errorf("node with empty id")
		}
		if _, ok := n.Nodes[id]; !ok {
			return fmt.Errorf("node %q in order but not indexed", id)
		}
	}
	return nil
}
