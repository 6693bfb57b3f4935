package opticgraph

import (
	"errors"
	"fmt"
)

// withKind tags err with kind unless the chain already carries it.
func withKind(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
