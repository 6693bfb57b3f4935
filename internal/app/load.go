package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/beamgrid/internal/builder"
	"github.com/vk/beamgrid/internal/config"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/opticgraph"
)

// isSavedGraph reports whether path names a persisted graph rather than an
// HCL scenery.
func isSavedGraph(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// loadGraph reads the configured scenery. A saved graph carries no analysis
// settings, so an empty set is returned for it.
func (a *App) loadGraph(ctx context.Context) (*opticgraph.Graph, *config.Analysis, error) {
	logger := ctxlog.FromContext(ctx)
	path := a.config.SceneryPath

	if isSavedGraph(path) {
		logger.Debug("Loading saved graph.", "path", path)
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open graph file: %w", err)
		}
		defer f.Close()

		g, err := opticgraph.Decode(ctx, f, a.registry)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load graph %s: %w", path, err)
		}
		return g, config.NewAnalysis(), nil
	}

	logger.Debug("Loading scenery.", "path", path)
	scenery, err := a.loader.Load(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load scenery: %w", err)
	}
	res, err := builder.Build(ctx, scenery.Graph, a.registry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build optical graph: %w", err)
	}
	analysis := scenery.Analysis
	if analysis == nil {
		analysis = config.NewAnalysis()
	}
	return res.Graph, analysis, nil
}
