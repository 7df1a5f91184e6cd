package overlay

import (
	"math"
	"testing"

	"leak-viewer/pkg/geometry"
)

const samplePredictions = `[
	{
		"detected_node": "J12",
		"estimated_start_time": "2025-03-14T08:30:00Z",
		"estimated_cusum_severity": 0.82,
		"gps_coordinates": [12.5, 7.25],
		"heatmap": [
			{"x": 12.0, "y": 7.0, "weight": 0.9},
			{"x": 13.0, "y": 7.5, "weight": 0.4}
		],
		"work_order": "WO-4711"
	},
	{"detected_node": "J99", "estimated_cusum_severity": 0.3}
]`

func TestDecodePredictions(t *testing.T) {
	preds, err := DecodePredictions([]byte(samplePredictions))
	if err != nil {
		t.Fatalf("DecodePredictions: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("len = %d, want 2", len(preds))
	}

	p := preds[0]
	if p.DetectedNode != "J12" || p.WorkOrder != "WO-4711" {
		t.Errorf("first prediction = %+v", p)
	}
	if p.GPS == nil || p.GPS.X != 12.5 || p.GPS.Y != 7.25 {
		t.Errorf("GPS = %+v, want (12.5, 7.25)", p.GPS)
	}
	if len(p.Heatmap) != 2 || p.Heatmap[0].Weight != 0.9 {
		t.Errorf("heatmap = %+v", p.Heatmap)
	}

	if preds[1].GPS != nil {
		t.Error("second prediction has no gps_coordinates")
	}
}

func TestDecodePredictionsWrapped(t *testing.T) {
	wrapped := `{"predictions": ` + samplePredictions + `}`
	preds, err := DecodePredictions([]byte(wrapped))
	if err != nil {
		t.Fatalf("DecodePredictions (wrapped): %v", err)
	}
	if len(preds) != 2 {
		t.Errorf("len = %d, want 2", len(preds))
	}
}

func TestDecodePredictionsShortGPS(t *testing.T) {
	preds, err := DecodePredictions([]byte(`[{"detected_node": "a", "gps_coordinates": [1.0]}]`))
	if err != nil {
		t.Fatalf("DecodePredictions: %v", err)
	}
	if preds[0].GPS != nil {
		t.Error("one-element gps_coordinates should be ignored")
	}
}

func TestDecodePredictionsMalformed(t *testing.T) {
	if _, err := DecodePredictions([]byte(`{"predictions": 7}`)); err == nil {
		t.Error("non-array predictions should fail")
	}
}

func TestDecodeGroundTruth(t *testing.T) {
	payload := `{"leaks": [{"pipe_id": "P7", "x": 3, "y": 4}, {"pipe_id": "P9", "x": 8, "y": 1}]}`
	gt, err := DecodeGroundTruth([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeGroundTruth: %v", err)
	}
	if len(gt.Leaks) != 2 || gt.Leaks[0].PipeID != "P7" {
		t.Errorf("leaks = %+v", gt.Leaks)
	}
	if gt.Count != 2 {
		t.Errorf("Count = %d, want 2 (defaults to len(leaks))", gt.Count)
	}

	explicit, err := DecodeGroundTruth([]byte(`{"leaks": [], "count": 5}`))
	if err != nil {
		t.Fatalf("DecodeGroundTruth: %v", err)
	}
	if explicit.Count != 5 {
		t.Errorf("explicit count overridden: %d", explicit.Count)
	}
}

func nodePosFixture(id string) (geometry.Point2D, bool) {
	switch id {
	case "J1":
		return geometry.Point2D{X: 0, Y: 0}, true
	case "J2":
		return geometry.Point2D{X: 10, Y: 0}, true
	}
	return geometry.Point2D{}, false
}

func TestLocate(t *testing.T) {
	gps := geometry.Point2D{X: 3, Y: 3}
	tests := []struct {
		name   string
		pred   Prediction
		want   geometry.Point2D
		wantOK bool
	}{
		{"gps wins over detected node", Prediction{DetectedNode: "J1", GPS: &gps}, gps, true},
		{"detected node fallback", Prediction{DetectedNode: "J2"}, geometry.Point2D{X: 10, Y: 0}, true},
		{"unknown node fails", Prediction{DetectedNode: "ghost"}, geometry.Point2D{}, false},
		{"nothing to locate", Prediction{}, geometry.Point2D{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(tt.pred, nodePosFixture)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Locate = (%+v, %v), want (%+v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestComputeLocalization(t *testing.T) {
	gt := &GroundTruth{
		Leaks: []GroundTruthLeak{
			{PipeID: "P1", Pos: geometry.Point2D{X: 0, Y: 3}},
			{PipeID: "P2", Pos: geometry.Point2D{X: 10, Y: 4}},
		},
	}
	preds := []Prediction{
		{DetectedNode: "J1"},    // nearest leak at distance 3
		{DetectedNode: "J2"},    // nearest leak at distance 4
		{DetectedNode: "ghost"}, // not locatable, ignored
	}

	m := ComputeLocalization(preds, gt, nodePosFixture)
	if m.Matched != 2 {
		t.Errorf("Matched = %d, want 2", m.Matched)
	}
	if math.Abs(m.MeanError-3.5) > 1e-9 {
		t.Errorf("MeanError = %v, want 3.5", m.MeanError)
	}
	if math.Abs(m.MaxError-4) > 1e-9 {
		t.Errorf("MaxError = %v, want 4", m.MaxError)
	}
}

func TestComputeLocalizationEmpty(t *testing.T) {
	if m := ComputeLocalization(nil, nil, nodePosFixture); m.Matched != 0 {
		t.Errorf("nil inputs produced %+v", m)
	}
	gt := &GroundTruth{}
	if m := ComputeLocalization([]Prediction{{DetectedNode: "J1"}}, gt, nodePosFixture); m.Matched != 0 {
		t.Errorf("empty ground truth produced %+v", m)
	}
}
