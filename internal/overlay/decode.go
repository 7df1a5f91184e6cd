package overlay

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"leak-viewer/pkg/geometry"
)

type heatmapPointPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Weight float64 `json:"weight"`
}

type predictionPayload struct {
	DetectedNode  string                `json:"detected_node"`
	StartTime     string                `json:"estimated_start_time"`
	CusumSeverity float64               `json:"estimated_cusum_severity"`
	GPS           []float64             `json:"gps_coordinates"`
	Heatmap       []heatmapPointPayload `json:"heatmap"`
	WorkOrder     string                `json:"work_order"`
}

// DecodePredictions parses the pipeline's prediction array. The payload
// may be either a bare array or wrapped in {"predictions": [...]}.
func DecodePredictions(data []byte) ([]Prediction, error) {
	var payload []predictionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		var wrapped struct {
			Predictions []predictionPayload `json:"predictions"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode predictions: %w", err)
		}
		payload = wrapped.Predictions
	}

	preds := make([]Prediction, 0, len(payload))
	for _, pp := range payload {
		p := Prediction{
			DetectedNode:  pp.DetectedNode,
			StartTime:     pp.StartTime,
			CusumSeverity: pp.CusumSeverity,
			WorkOrder:     pp.WorkOrder,
		}
		if len(pp.GPS) >= 2 {
			p.GPS = &geometry.Point2D{X: pp.GPS[0], Y: pp.GPS[1]}
		}
		for _, hp := range pp.Heatmap {
			p.Heatmap = append(p.Heatmap, HeatmapPoint{
				Pos:    geometry.Point2D{X: hp.X, Y: hp.Y},
				Weight: hp.Weight,
			})
		}
		preds = append(preds, p)
	}
	return preds, nil
}

type groundTruthPayload struct {
	Leaks []struct {
		PipeID string  `json:"pipe_id"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	} `json:"leaks"`
	Count int `json:"count"`
}

// DecodeGroundTruth parses the ground-truth payload.
func DecodeGroundTruth(data []byte) (*GroundTruth, error) {
	var payload groundTruthPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode ground truth: %w", err)
	}

	gt := &GroundTruth{Count: payload.Count}
	for _, l := range payload.Leaks {
		gt.Leaks = append(gt.Leaks, GroundTruthLeak{
			PipeID: l.PipeID,
			Pos:    geometry.Point2D{X: l.X, Y: l.Y},
		})
	}
	if gt.Count == 0 {
		gt.Count = len(gt.Leaks)
	}
	return gt, nil
}

// LoadPredictionsFile reads and decodes a predictions snapshot.
func LoadPredictionsFile(path string) ([]Prediction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodePredictions(data)
}

// LoadGroundTruthFile reads and decodes a ground-truth snapshot.
func LoadGroundTruthFile(path string) (*GroundTruth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeGroundTruth(data)
}
