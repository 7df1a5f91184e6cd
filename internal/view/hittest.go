package view

import (
	"leak-viewer/internal/network"
	"leak-viewer/pkg/geometry"
)

// DefaultHitThreshold is the maximum pixel distance at which a pointer
// is considered "over" a node.
const DefaultHitThreshold = 20.0

// gridCutover is the node count above which HitTest switches from the
// linear scan to the bucket-grid index. Both obey the same
// nearest-under-threshold contract.
const gridCutover = 4096

// HitTest returns the id of the node nearest to the pointer in screen
// space, or "" when no node is within threshold pixels. Nodes are
// visited in snapshot order and the first node wins on exact distance
// ties, so repeated calls with identical inputs always return the same
// id.
func HitTest(pointer geometry.Point2D, n *network.Network, p Projection, t Transform, threshold float64) string {
	if n == nil || len(n.Order) == 0 {
		return ""
	}
	if threshold <= 0 {
		threshold = DefaultHitThreshold
	}
	if len(n.Order) > gridCutover {
		return gridHitTest(pointer, n, p, t, threshold)
	}
	return linearHitTest(pointer, n, p, t, threshold)
}

// linearHitTest is the O(n) scan: project every node, track the minimum
// pixel distance.
func linearHitTest(pointer geometry.Point2D, n *network.Network, p Projection, t Transform, threshold float64) string {
	best := ""
	bestDist := threshold
	for _, id := range n.Order {
		screen := p.WorldToScreen(n.Nodes[id].Pos, t)
		if d := pointer.Distance(screen); d < bestDist {
			bestDist = d
			best = id
		}
	}
	return best
}

// gridHitTest buckets projected nodes into threshold-sized screen cells
// and only measures nodes in the 3x3 neighborhood around the pointer's
// cell. Any node within threshold of the pointer necessarily lands in
// that neighborhood, so the result matches the linear scan, including
// the first-in-snapshot-order tie-break (cells preserve insertion
// order and strict < comparison keeps the earliest minimum).
func gridHitTest(pointer geometry.Point2D, n *network.Network, p Projection, t Transform, threshold float64) string {
	type cellKey struct{ cx, cy int }
	type entry struct {
		id     string
		order  int
		screen geometry.Point2D
	}

	cellOf := func(pt geometry.Point2D) cellKey {
		cx := int(pt.X / threshold)
		if pt.X < 0 {
			cx--
		}
		cy := int(pt.Y / threshold)
		if pt.Y < 0 {
			cy--
		}
		return cellKey{cx, cy}
	}

	cells := make(map[cellKey][]entry)
	for i, id := range n.Order {
		screen := p.WorldToScreen(n.Nodes[id].Pos, t)
		key := cellOf(screen)
		cells[key] = append(cells[key], entry{id: id, order: i, screen: screen})
	}

	center := cellOf(pointer)
	best := ""
	bestOrder := -1
	bestDist := threshold
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, e := range cells[cellKey{center.cx + dx, center.cy + dy}] {
				d := pointer.Distance(e.screen)
				if d < bestDist || (d == bestDist && best != "" && e.order < bestOrder) {
					bestDist = d
					best = e.id
					bestOrder = e.order
				}
			}
		}
	}
	return best
}
