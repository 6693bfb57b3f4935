package registry

import (
	"context"
	"fmt"

	"github.com/vk/beamgrid/internal/ctxlog"
)

// ValidateRegistry builds one node per registered type and checks that it
// reports the type it was registered under. A mismatch would make saved
// graphs impossible to load again.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting registry validation.", "types", len(r.factories))

	for _, nodeType := range r.Types() {
		node := r.factories[nodeType]()
		if node == nil {
			return fmt.Errorf("registry validation failed: factory for '%s' returned nil", nodeType)
		}
		if got := node.NodeType(); got != nodeType {
			return fmt.Errorf("registry validation failed: factory for '%s' builds nodes of type '%s'", nodeType, got)
		}
		if node.Ports() == nil {
			return fmt.Errorf("registry validation failed: node type '%s' has no port set", nodeType)
		}
		logger.Debug("Node type validated.", "type", nodeType, "ports", node.Ports().String())
	}

	logger.Debug("Registry validation successful.")
	return nil
}
