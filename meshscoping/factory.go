// Package meshscoping contains constructors for mesh scopings: plain ID
// lists tagged nodal or elemental, and named selection lookups resolved
// through a model.
package meshscoping

import (
	"context"
	"errors"

	"github.com/vk/fempost/model"
	"github.com/vk/fempost/types"
)

// ErrNoIDs rejects a scoping built from no entity IDs.
var ErrNoIDs = errors.New("scoping requires at least one entity ID")

// NodalScoping builds a scoping over the given node IDs, in order.
func NodalScoping(nodeIDs []int) (*types.Scoping, error) {
	return scoping(nodeIDs, types.Nodal)
}

// ElementalScoping builds a scoping over the given element IDs, in order.
func ElementalScoping(elementIDs []int) (*types.Scoping, error) {
	return scoping(elementIDs, types.Elemental)
}

func scoping(ids []int, location types.Location) (*types.Scoping, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	return types.NewScoping(append([]int(nil), ids...), location), nil
}

// NamedSelectionScoping resolves a named selection through the model's
// metadata. Every call round-trips to the engine.
func NamedSelectionScoping(ctx context.Context, name string, m *model.Model) (*types.Scoping, error) {
	return m.Metadata().NamedSelection(ctx, name)
}
