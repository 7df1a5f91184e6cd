package network

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"leak-viewer/pkg/geometry"
)

// nodePayload mirrors the backend's network endpoint node shape.
type nodePayload struct {
	ID        string   `json:"id"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Type      string   `json:"type"`
	Elevation *float64 `json:"elevation"`
}

// linkPayload accepts both the start_node/end_node field names emitted by
// the backend and the shorter start/end aliases found in sandbox uploads.
type linkPayload struct {
	ID        string  `json:"id"`
	StartNode string  `json:"start_node"`
	EndNode   string  `json:"end_node"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Length    float64 `json:"length"`
	Diameter  float64 `json:"diameter"`
}

func (l linkPayload) start() string {
	if l.StartNode != "" {
		return l.StartNode
	}
	return l.Start
}

func (l linkPayload) end() string {
	if l.EndNode != "" {
		return l.EndNode
	}
	return l.End
}

// networkPayload is the input boundary shape. Some producers call the
// link array "links", others "edges" or "pipes"; all are accepted.
type networkPayload struct {
	Nodes []nodePayload `json:"nodes"`
	Links []linkPayload `json:"links"`
	Edges []linkPayload `json:"edges"`
	Pipes []linkPayload `json:"pipes"`

	// Sensors appear either inline or as a separate sensor_ids payload.
	Sensors   []string `json:"sensors"`
	SensorIDs []string `json:"sensor_ids"`
}

// Decode parses a network snapshot payload. Duplicate node ids keep the
// first occurrence; the payload is otherwise taken as-is, with link
// resolution deferred to render time per the fail-soft policy.
func Decode(data []byte) (*Network, error) {
	var payload networkPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}

	n := &Network{
		Nodes: make(map[string]Node, len(payload.Nodes)),
		Order: make([]string, 0, len(payload.Nodes)),
	}

	for _, np := range payload.Nodes {
		if np.ID == "" {
			continue
		}
		if _, exists := n.Nodes[np.ID]; exists {
			continue
		}
		node := Node{
			ID:   np.ID,
			Pos:  geometry.Point2D{X: np.X, Y: np.Y},
			Kind: ParseNodeKind(np.Type),
		}
		if np.Elevation != nil {
			node.Elevation = *np.Elevation
			node.HasElev = true
		}
		n.Nodes[np.ID] = node
		n.Order = append(n.Order, np.ID)
	}

	links := payload.Links
	if len(links) == 0 {
		links = payload.Edges
	}
	if len(links) == 0 {
		links = payload.Pipes
	}
	for _, lp := range links {
		n.Links = append(n.Links, Link{
			ID:       lp.ID,
			StartID:  lp.start(),
			EndID:    lp.end(),
			Length:   lp.Length,
			Diameter: lp.Diameter,
		})
	}

	n.Sensors = payload.Sensors
	if len(n.Sensors) == 0 {
		n.Sensors = payload.SensorIDs
	}

	// Drop sensor ids that don't resolve to a node
	valid := n.Sensors[:0]
	for _, s := range n.Sensors {
		if _, ok := n.Nodes[s]; ok {
			valid = append(valid, s)
		}
	}
	n.Sensors = valid

	return n, n.Validate()
}

// LoadFile reads and decodes a network snapshot from disk.
func LoadFile(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// LoadSensorsFile reads a sensor_ids payload and merges it into the
// network, replacing any inline sensor list.
func LoadSensorsFile(n *Network, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var payload struct {
		SensorIDs []string `json:"sensor_ids"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode sensors: %w", err)
	}
	sensors := make([]string, 0, len(payload.SensorIDs))
	for _, s := range payload.SensorIDs {
		if _, ok := n.Nodes[s]; ok {
			sensors = append(sensors, s)
		}
	}
	n.Sensors = sensors
	return nil
}
