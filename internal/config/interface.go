package config

import "context"

// Loader is the interface for a format-specific scenery loader.
type Loader interface {
	// Load reads the scenery from the given files or directories and
	// translates it into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Scenery, error)
}
