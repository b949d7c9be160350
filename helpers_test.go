/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suparena/portalnetwork/datastore/mock"
)

// fakeGeometry returns preset shapes keyed by the block of the portal location.
// Placements without a preset shape are invalid.
type fakeGeometry struct {
	shapes   map[Position]Shape
	inspects map[Position]int
	released []Location
}

func newFakeGeometry() *fakeGeometry {
	return &fakeGeometry{
		shapes:   make(map[Position]Shape),
		inspects: make(map[Position]int),
	}
}

func (g *fakeGeometry) Inspect(loc Location, _ PortalType) Shape {
	g.inspects[loc.Position()]++
	return g.shapes[loc.Position()]
}

func (g *fakeGeometry) Release(loc Location, _ PortalType) {
	g.released = append(g.released, loc)
}

// frame presets a valid 1x2 portal standing on pos: base below the opening,
// frame on both sides.
func (g *fakeGeometry) frame(pos Position, network, address int) Shape {
	shape := Shape{
		Valid:   true,
		Network: Int(network),
		Address: Int(address),
		Opening: []Position{pos.Offset(0, 1, 0), pos.Offset(0, 2, 0)},
		Frame:   []Position{pos.Offset(-1, 1, 0), pos.Offset(-1, 2, 0), pos.Offset(1, 1, 0), pos.Offset(1, 2, 0)},
		Base:    []Position{pos.Offset(-1, 0, 0), pos.Offset(1, 0, 0)},
	}
	g.shapes[pos] = shape
	return shape
}

// point presets a valid shape that occupies only the location itself.
func (g *fakeGeometry) point(pos Position, network, address int) {
	g.shapes[pos] = Shape{Valid: true, Network: Int(network), Address: Int(address)}
}

func at(world string, x, y, z int) Location {
	return Location{World: world, X: float64(x), Y: float64(y), Z: float64(z)}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T, geometry Geometry, opts ...Option) (*Registry, *mock.DocumentStore) {
	t.Helper()
	store := mock.New()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(store, geometry, opts...), store
}

func mustCreate(t *testing.T, reg *Registry, loc Location, portalType PortalType) *Portal {
	t.Helper()
	portal, err := reg.CreatePortal(context.Background(), loc, portalType)
	require.NoError(t, err)
	return portal
}
