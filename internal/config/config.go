// Package config loads viewer render options from a TOML file. The same
// file serves the GUI and the headless renderer; everything has a
// default so the file is optional.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Viewer is the full render configuration surface: zoom bounds, hit-test
// threshold, heatmap encoding constants, and layer visibility flags.
type Viewer struct {
	View    ViewConfig    `toml:"view"`
	Heatmap HeatmapConfig `toml:"heatmap"`
	Layers  LayersConfig  `toml:"layers"`
}

// ViewConfig covers viewport interaction.
type ViewConfig struct {
	MinZoom        float64 `toml:"min_zoom"`
	MaxZoom        float64 `toml:"max_zoom"`
	HitThresholdPx float64 `toml:"hit_threshold_px"`
	PanSensitivity float64 `toml:"pan_sensitivity"`
}

// HeatmapConfig covers the weight-to-visual encoding constants.
type HeatmapConfig struct {
	RadiusScale  float64 `toml:"heat_radius_scale"`
	RadiusMin    float64 `toml:"heat_radius_min"`
	OpacityScale float64 `toml:"heat_opacity_scale"`
}

// LayersConfig covers overlay visibility defaults.
type LayersConfig struct {
	ShowGroundTruth bool `toml:"show_ground_truth"`
	ShowPredictions bool `toml:"show_predictions"`
	ShowErrorLines  bool `toml:"show_error_lines"`
	ShowLabels      bool `toml:"show_labels"`
}

// Default returns the built-in configuration.
func Default() Viewer {
	return Viewer{
		View: ViewConfig{
			MinZoom:        0.1,
			MaxZoom:        10.0,
			HitThresholdPx: 20,
			PanSensitivity: 1.0,
		},
		Heatmap: HeatmapConfig{
			RadiusScale:  14.0,
			RadiusMin:    2.0,
			OpacityScale: 0.55,
		},
		Layers: LayersConfig{
			ShowGroundTruth: true,
			ShowPredictions: true,
			ShowErrorLines:  true,
			ShowLabels:      false,
		},
	}
}

// Load reads a TOML config file over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (Viewer, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg.sanitized(), nil
}

// sanitized clamps nonsensical values back to defaults so a bad config
// degrades rather than breaking interaction.
func (v Viewer) sanitized() Viewer {
	def := Default()
	if v.View.MinZoom <= 0 || v.View.MinZoom >= v.View.MaxZoom {
		v.View.MinZoom = def.View.MinZoom
		v.View.MaxZoom = def.View.MaxZoom
	}
	if v.View.HitThresholdPx <= 0 {
		v.View.HitThresholdPx = def.View.HitThresholdPx
	}
	if v.View.PanSensitivity <= 0 {
		v.View.PanSensitivity = def.View.PanSensitivity
	}
	if v.Heatmap.RadiusScale < 0 {
		v.Heatmap.RadiusScale = def.Heatmap.RadiusScale
	}
	if v.Heatmap.RadiusMin < 0 {
		v.Heatmap.RadiusMin = def.Heatmap.RadiusMin
	}
	if v.Heatmap.OpacityScale < 0 || v.Heatmap.OpacityScale > 1 {
		v.Heatmap.OpacityScale = def.Heatmap.OpacityScale
	}
	return v
}
