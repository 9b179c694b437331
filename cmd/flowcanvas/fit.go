package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"flowcanvas/internal/config"
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
	"flowcanvas/internal/errors"
	"flowcanvas/internal/panzoom"
	"flowcanvas/internal/store"
	"flowcanvas/internal/validation"
	"flowcanvas/internal/visibility"
)

// graphFile is a saved canvas. Nodes carry their measured width and height.
type graphFile struct {
	Width  float64     `json:"width" yaml:"width" validate:"gte=0"`
	Height float64     `json:"height" yaml:"height" validate:"gte=0"`
	Nodes  []node.Node `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges  []edge.Edge `json:"edges" yaml:"edges" validate:"dive"`
}

type fitOptions struct {
	padding           float64
	minZoom, maxZoom  float64
	includeHidden     bool
	onlyRenderVisible bool
}

type fitResult struct {
	Viewport geometry.Viewport
	Visible  []node.Node
	Layers   []visibility.EdgeLayer
}

func fitCmd() *cobra.Command {
	defaults := config.Default(config.Development).Editor
	opts := fitOptions{
		padding: store.DefaultPadding,
		minZoom: defaults.MinZoom,
		maxZoom: defaults.MaxZoom,
	}

	cmd := &cobra.Command{
		Use:   "fit <graph.yaml|graph.json>",
		Short: "Compute the camera that fits a saved graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := fitGraph(args[0], opts)
			if err != nil {
				return err
			}
			printFit(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "Fraction of the viewport left empty around the graph")
	cmd.Flags().Float64Var(&opts.minZoom, "min-zoom", opts.minZoom, "Lowest zoom the fit may use")
	cmd.Flags().Float64Var(&opts.maxZoom, "max-zoom", opts.maxZoom, "Highest zoom the fit may use")
	cmd.Flags().BoolVar(&opts.includeHidden, "include-hidden", false, "Fit hidden nodes too")
	cmd.Flags().BoolVar(&opts.onlyRenderVisible, "cull", true, "List only what the fitted viewport shows")
	return cmd
}

// fitGraph loads path into a headless canvas and fits the camera to it.
func fitGraph(path string, opts fitOptions) (fitResult, error) {
	g, err := readGraph(path)
	if err != nil {
		return fitResult{}, err
	}

	cfg := config.Default(config.Development)
	cfg.Editor.MinZoom, cfg.Editor.MaxZoom = opts.minZoom, opts.maxZoom
	if g.Width > 0 && g.Height > 0 {
		cfg.Viewport = config.ViewportSize{Width: g.Width, Height: g.Height}
	}
	if err := cfg.Validate(); err != nil {
		return fitResult{}, err
	}

	s := store.New(cfg.StoreSettings(), nil)
	s.SetNodes(g.Nodes)
	s.SetEdges(g.Edges)

	pz := panzoom.NewBehavior(geometry.Identity, opts.minZoom, opts.maxZoom, s.SetTransform, nil)
	defer pz.Stop()
	s.AttachPanZoom(pz)

	padding := opts.padding
	if !s.FitView(store.FitViewOptions{Padding: &padding, IncludeHiddenNodes: opts.includeHidden}) {
		return fitResult{}, errors.Validation(errors.CodeNothingToFit, "no measured node to fit").
			WithResource(path).
			Build()
	}

	st := s.Snapshot()
	return fitResult{
		Viewport: st.Transform,
		Visible:  visibility.VisibleNodes(st, opts.onlyRenderVisible),
		Layers:   visibility.GroupEdgesByZLevel(visibility.VisibleEdges(st, opts.onlyRenderVisible), st.Nodes),
	}, nil
}

func readGraph(path string) (graphFile, error) {
	var g graphFile
	raw, err := os.ReadFile(path)
	if err != nil {
		return g, errors.Validation(errors.CodeInvalidGraphFile, "cannot read graph file").
			WithResource(path).
			WithCause(err).
			Build()
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		err = dec.Decode(&g)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &g)
	default:
		return g, errors.Validation(errors.CodeInvalidGraphFile, "graph file must be .json or .yaml").
			WithResource(path).
			Build()
	}
	if err != nil {
		return g, errors.Validation(errors.CodeInvalidGraphFile, "cannot parse graph file").
			WithResource(path).
			WithDetails(err.Error()).
			WithCause(err).
			Build()
	}
	return g, validation.Struct(g, errors.CodeInvalidGraphFile)
}

func printFit(w io.Writer, res fitResult) {
	v := res.Viewport
	fmt.Fprintf(w, "%s  x=%.2f y=%.2f zoom=%.4f\n", brand.Sprintf("%-10s", "Viewport"), v.X, v.Y, v.Zoom)

	fmt.Fprintf(w, "%s  %d\n", brand.Sprintf("%-10s", "Nodes"), len(res.Visible))
	for _, n := range res.Visible {
		mark := good.Sprint("•")
		if n.Hidden {
			mark = subtle.Sprint("◦")
		}
		fmt.Fprintf(w, "  %s %-16s %s\n", mark, n.ID, subtle.Sprintf("(%.0f, %.0f)", n.Position.X, n.Position.Y))
	}

	fmt.Fprintf(w, "%s  %d\n", brand.Sprintf("%-10s", "Layers"), len(res.Layers))
	for _, l := range res.Layers {
		label := fmt.Sprintf("z=%d", l.Level)
		if l.IsMaxLevel {
			label = accent.Sprint(label + " top")
		}
		ids := make([]string, 0, len(l.Edges))
		for _, e := range l.Edges {
			ids = append(ids, e.ID)
		}
		fmt.Fprintf(w, "  %s  %s\n", label, strings.Join(ids, ", "))
	}
}
