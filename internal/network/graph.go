package network

// ConnectivityReport summarizes the topology's graph structure. It is a
// diagnostic for uploaded network files: isolated nodes and a fragmented
// component count usually indicate a truncated or mis-keyed upload.
type ConnectivityReport struct {
	Components    int // connected components among nodes touched by links
	IsolatedNodes int // nodes with no resolved link at all
	DroppedLinks  int // links skipped because an endpoint was unknown
}

// Connectivity runs a union-find pass over the resolved links.
func (n *Network) Connectivity() ConnectivityReport {
	resolved, dropped := n.ResolvedLinks()

	parent := make(map[string]string, len(n.Nodes))
	var find func(string) string
	find = func(id string) string {
		p, ok := parent[id]
		if !ok || p == id {
			parent[id] = id
			return id
		}
		root := find(p)
		parent[id] = root
		return root
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	linked := make(map[string]bool, len(n.Nodes))
	for _, l := range resolved {
		union(l.StartID, l.EndID)
		linked[l.StartID] = true
		linked[l.EndID] = true
	}

	roots := make(map[string]bool)
	for id := range linked {
		roots[find(id)] = true
	}

	isolated := 0
	for _, id := range n.Order {
		if !linked[id] {
			isolated++
		}
	}

	return ConnectivityReport{
		Components:    len(roots),
		IsolatedNodes: isolated,
		DroppedLinks:  dropped,
	}
}
