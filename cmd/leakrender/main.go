// Command leakrender renders a network snapshot to a PNG without the
// GUI, for reports and CI artifacts.
package main

import (
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leak-viewer/internal/config"
	"leak-viewer/internal/layers"
	"leak-viewer/internal/network"
	"leak-viewer/internal/overlay"
	"leak-viewer/internal/render"
	"leak-viewer/internal/version"
	"leak-viewer/internal/view"
	"leak-viewer/pkg/geometry"
)

var (
	networkPath     string
	predictionsPath string
	groundTruthPath string
	sensorsPath     string
	configPath      string
	outPath         string
	width           int
	height          int
	zoom            float64
	showLabels      bool
)

func main() {
	root := &cobra.Command{
		Use:     "leakrender",
		Short:   "Render a water-network leak snapshot to PNG",
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	root.Flags().StringVarP(&networkPath, "network", "n", "", "network snapshot JSON (required)")
	root.Flags().StringVarP(&predictionsPath, "predictions", "p", "", "predictions snapshot JSON")
	root.Flags().StringVarP(&groundTruthPath, "ground-truth", "g", "", "ground-truth snapshot JSON")
	root.Flags().StringVar(&sensorsPath, "sensors", "", "sensor list JSON")
	root.Flags().StringVarP(&configPath, "config", "c", "", "viewer config TOML")
	root.Flags().StringVarP(&outPath, "out", "o", "network.png", "output PNG path")
	root.Flags().IntVar(&width, "width", 1600, "output width in pixels")
	root.Flags().IntVar(&height, "height", 1200, "output height in pixels")
	root.Flags().Float64Var(&zoom, "zoom", 1.0, "zoom factor")
	root.Flags().BoolVar(&showLabels, "labels", false, "draw marker labels")
	_ = root.MarkFlagRequired("network")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	n, err := network.LoadFile(networkPath)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}
	if sensorsPath != "" {
		if err := network.LoadSensorsFile(n, sensorsPath); err != nil {
			return fmt.Errorf("load sensors: %w", err)
		}
	}

	var preds []overlay.Prediction
	if predictionsPath != "" {
		preds, err = overlay.LoadPredictionsFile(predictionsPath)
		if err != nil {
			return fmt.Errorf("load predictions: %w", err)
		}
	}

	var gt *overlay.GroundTruth
	if groundTruthPath != "" {
		gt, err = overlay.LoadGroundTruthFile(groundTruthPath)
		if err != nil {
			return fmt.Errorf("load ground truth: %w", err)
		}
	}

	builder := layers.NewBuilder()
	builder.Encoder.RadiusScale = cfg.Heatmap.RadiusScale
	builder.Encoder.RadiusMin = cfg.Heatmap.RadiusMin
	builder.Encoder.OpacityScale = cfg.Heatmap.OpacityScale

	flags := layers.Flags{
		ShowGroundTruth: cfg.Layers.ShowGroundTruth,
		ShowPredictions: cfg.Layers.ShowPredictions,
		ShowErrorLines:  cfg.Layers.ShowErrorLines,
	}
	prims := builder.Build(n, preds, gt, flags)

	proj := view.NewProjection(
		geometry.ComputeBounds(n.NodePoints()),
		geometry.Size{Width: float64(width), Height: float64(height)},
	)
	t := view.IdentityTransform()
	t.Scale = view.ClampScaleTo(zoom, cfg.View.MinZoom, cfg.View.MaxZoom)

	rast := render.NewRasterizer()
	rast.ShowLabels = showLabels || cfg.Layers.ShowLabels
	img := rast.Render(prims, proj, t, width, height)

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	printSummary(n, preds, gt)
	log.Printf("Wrote %s (%dx%d)", outPath, width, height)
	return nil
}

// printSummary writes a colorized snapshot report to stdout.
func printSummary(n *network.Network, preds []overlay.Prediction, gt *overlay.GroundTruth) {
	heading := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)

	heading.Println("Network")
	resolved, dropped := n.ResolvedLinks()
	fmt.Printf("  nodes:   %d\n", n.NodeCount())
	fmt.Printf("  pipes:   %d\n", len(resolved))
	if dropped > 0 {
		warn.Printf("  dropped: %d links with unknown endpoints\n", dropped)
	}
	fmt.Printf("  sensors: %d\n", len(n.Sensors))

	report := n.Connectivity()
	fmt.Printf("  components: %d\n", report.Components)
	if report.IsolatedNodes > 0 {
		warn.Printf("  isolated:   %d nodes\n", report.IsolatedNodes)
	}

	if len(preds) > 0 {
		heading.Println("Predictions")
		fmt.Printf("  count: %d\n", len(preds))
	}
	if gt != nil {
		heading.Println("Ground truth")
		fmt.Printf("  leaks: %d\n", len(gt.Leaks))
	}

	if len(preds) > 0 && gt != nil && len(gt.Leaks) > 0 {
		m := overlay.ComputeLocalization(preds, gt, func(id string) (geometry.Point2D, bool) {
			node, ok := n.Nodes[id]
			return node.Pos, ok
		})
		if m.Matched > 0 {
			heading.Println("Localization")
			fmt.Printf("  matched:    %d\n", m.Matched)
			fmt.Printf("  mean error: %.2f\n", m.MeanError)
			fmt.Printf("  max error:  %.2f\n", m.MaxError)
		}
	}
}
