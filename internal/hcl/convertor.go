package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeProperties evaluates every attribute of body and converts it into a
// plain Go value. Expressions are evaluated without variables.
func decodeProperties(ctx context.Context, body hcl.Body) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	props := make(map[string]any)
	if body == nil {
		return props, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := attrs[name]
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		goVal, err := toGoValue(val)
		if err != nil {
			return nil, fmt.Errorf("%s: property %q: %w", attr.Range, name, err)
		}
		logger.Debug("Decoded property.", "property", name, "type", val.Type().FriendlyName())
		props[name] = goVal
	}
	return props, nil
}

// toGoValue converts a cty value into string, bool or float64.
func toGoValue(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, fmt.Errorf("value must not be null")
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be known")
	}

	switch ty := val.Type(); ty {
	case cty.String:
		var s string
		err := gocty.FromCtyValue(val, &s)
		return s, err
	case cty.Number:
		var f float64
		err := gocty.FromCtyValue(val, &f)
		return f, err
	case cty.Bool:
		var b bool
		err := gocty.FromCtyValue(val, &b)
		return b, err
	default:
		return nil, fmt.Errorf("unsupported value of type %s, expected string, number or bool", ty.FriendlyName())
	}
}
