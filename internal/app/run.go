package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/config"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opticgraph"
	"gopkg.in/yaml.v3"
)

// report is the YAML document printed by the analyze command.
type report struct {
	Inverted  bool               `yaml:"inverted"`
	Outputs   map[string]float64 `yaml:"outputs"`
	Positions []placement        `yaml:"positions,omitempty"`
}

type placement struct {
	Node     string        `yaml:"node"`
	ID       uuid.UUID     `yaml:"id"`
	Isometry geom.Isometry `yaml:"isometry"`
}

// Run executes the configured command.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(a.config.HealthcheckPort); err != nil {
			return err
		}
		defer func() {
			if cerr := a.closeHealthcheckServer(ctx); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	g, settings, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}
	a.metrics.RecordGraph(g.NodeCount(), g.EdgeCount())
	a.logger.Info("Optical graph loaded.", "nodes", g.NodeCount(), "connections", g.EdgeCount())

	switch a.config.Command {
	case CommandAnalyze:
		err = a.analyze(ctx, g, settings)
	case CommandExport:
		err = a.writeGraph(ctx, g, a.config.OutputPath)
	case CommandDOT:
		_, err = fmt.Fprint(a.outW, g.DOT(a.config.RankDir))
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// incomingLight merges the scenery's light with the command line overrides.
func (a *App) incomingLight(settings *config.Analysis) light.Result {
	in := light.Result{}
	for name, joules := range settings.Light {
		in[name] = light.Energy{Joules: joules}
	}
	for name, joules := range a.config.Inputs {
		in[name] = light.Energy{Joules: joules}
	}
	return in
}

func (a *App) analyze(ctx context.Context, g *opticgraph.Graph, settings *config.Analysis) error {
	inverted := settings.Inverted != nil && *settings.Inverted
	if a.config.Inverted != nil {
		inverted = *a.config.Inverted
	}
	g.SetInverted(inverted)

	rep := report{Inverted: inverted, Outputs: map[string]float64{}}
	if len(settings.Distances) > 0 {
		positions, err := a.positionNodes(ctx, g, settings.Distances)
		if err != nil {
			return err
		}
		rep.Positions = positions
	}

	a.logger.Info("Starting analysis.", "inverted", inverted)
	start := time.Now()
	out, err := g.Analyze(ctx, a.incomingLight(settings))
	a.metrics.RecordAnalysis(err, time.Since(start))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	a.logger.Info("Analysis finished.", "outputs", len(out), "duration", time.Since(start))

	for _, port := range out.Ports() {
		joules, err := out.EnergyAt(port)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		rep.Outputs[port] = joules
	}

	enc := yaml.NewEncoder(a.outW)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to write analysis result: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to write analysis result: %w", err)
	}

	if a.config.OutputPath != "" {
		// The saved graph does not carry the direction of this run.
		g.SetInverted(false)
		return a.writeGraph(ctx, g, a.config.OutputPath)
	}
	return nil
}

// positionNodes places every node by launching a ray along the z axis into
// each external input that has a distance.
func (a *App) positionNodes(ctx context.Context, g *opticgraph.Graph, distances map[string]float64) ([]placement, error) {
	ray, err := geom.NewRay(geom.Vec3{}, geom.ZAxis)
	if err != nil {
		return nil, err
	}
	lengths := make(map[string]geom.Length, len(distances))
	in := light.Result{}
	for name, d := range distances {
		lengths[name] = geom.Meter(d)
		in[name] = light.Geometric{Rays: []geom.Ray{ray}}
	}
	g.SetExternalDistances(lengths)

	a.logger.Debug("Positioning nodes.", "inputs", len(in))
	if _, err := g.CalcNodePositions(ctx, in); err != nil {
		return nil, fmt.Errorf("positioning failed: %w", err)
	}

	var placements []placement
	for _, ref := range g.Nodes() {
		if iso, ok := ref.Node.Isometry(); ok {
			placements = append(placements, placement{Node: ref.Node.Name(), ID: ref.ID, Isometry: iso})
		}
	}
	return placements, nil
}

func (a *App) writeGraph(ctx context.Context, g *opticgraph.Graph, path string) error {
	data, err := g.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Graph written.", "path", path, "bytes", len(data))
	return nil
}
