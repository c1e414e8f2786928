// Package catalog implements the static action-type registry.
// One shared catalog keyed by stable identifiers — screens never carry their
// own per-view copies of the type table.
package catalog

import (
	"fmt"

	"github.com/ecosnap-app/ecosnap/internal/domain"
)

// Catalog is an immutable registry of action types. Defined at process
// start, never mutated; lookups and iteration are safe for concurrent use.
type Catalog struct {
	types []domain.ActionType
	index map[string]int
}

// New builds a catalog from the given types. Declaration order is preserved
// by List.
func New(types []domain.ActionType) *Catalog {
	c := &Catalog{
		types: make([]domain.ActionType, len(types)),
		index: make(map[string]int, len(types)),
	}
	copy(c.types, types)
	for i, t := range c.types {
		c.index[t.ID] = i
	}
	return c
}

// Default returns the standard EcoSnap action catalog.
func Default() *Catalog {
	return New([]domain.ActionType{
		{ID: "recycle", Label: "Recycling", Icon: "♻️", Points: 15, Category: domain.CategoryRecycle},
		{ID: "transport", Label: "Public Transport", Icon: "🚌", Points: 10, Category: domain.CategoryTransport},
		{ID: "energy", Label: "Energy Saving", Icon: "💡", Points: 12, Category: domain.CategoryEnergy},
		{ID: "water", Label: "Water Conservation", Icon: "💧", Points: 8, Category: domain.CategoryWater},
		{ID: "plant", Label: "Planting", Icon: "🌱", Points: 25, Category: domain.CategoryPlant},
		{ID: "reuse", Label: "Reusing Items", Icon: "🔄", Points: 18, Category: domain.CategoryReuse},
		{ID: "bike", Label: "Cycling/Walking", Icon: "🚴", Points: 20, Category: domain.CategoryBike},
		{ID: "compost", Label: "Composting", Icon: "🍃", Points: 22, Category: domain.CategoryCompost},
	})
}

// Lookup returns the action type for an identifier.
func (c *Catalog) Lookup(id string) (domain.ActionType, error) {
	i, ok := c.index[id]
	if !ok {
		return domain.ActionType{}, fmt.Errorf("%w: %q", domain.ErrActionTypeNotFound, id)
	}
	return c.types[i], nil
}

// List returns all action types in declaration order. The returned slice is
// a copy — callers may not mutate the catalog.
func (c *Catalog) List() []domain.ActionType {
	out := make([]domain.ActionType, len(c.types))
	copy(out, c.types)
	return out
}

// Len returns the number of registered action types.
func (c *Catalog) Len() int { return len(c.types) }
