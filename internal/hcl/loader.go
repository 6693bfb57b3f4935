package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/beamgrid/internal/config"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/fsutil"
)

// Extension is the file extension of scenery files.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL scenery loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file found in paths and merges them into a single
// scenery. Directories are searched recursively.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Scenery, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %v", Extension, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	scenery := config.NewScenery()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		g, err := translateGraph(ctx, root.Nodes, root.Connects, root.Inputs, root.Outputs, root.Groups)
		if err != nil {
			return nil, fmt.Errorf("in file %s: %w", file, err)
		}
		scenery.Graph.Merge(g)

		for _, block := range root.Analysis {
			a, err := translateAnalysis(block)
			if err == nil {
				err = scenery.Analysis.Merge(a)
			}
			if err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
		}
		logger.Debug("Translated HCL file.", "file", file, "nodes", len(g.Nodes), "connections", len(g.Connections), "groups", len(g.Groups))
	}

	logger.Debug("HCL loading complete.",
		"nodes", len(scenery.Graph.Nodes),
		"connections", len(scenery.Graph.Connections),
		"inputs", len(scenery.Graph.Inputs),
		"outputs", len(scenery.Graph.Outputs),
		"groups", len(scenery.Graph.Groups),
	)
	return scenery, nil
}

// findAllHCLFiles expands the given paths into a flat, duplicate free list
// of .hcl files. Files are taken as given, directories are walked.
func findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) != Extension {
				return nil, fmt.Errorf("file %s is not a %s file", path, Extension)
			}
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}
