/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/suparena/portalnetwork/errors"
)

func TestCreatePortal_IndexesAndSaves(t *testing.T) {
	g := newFakeGeometry()
	origin := Position{World: "world", Y: 64}
	shape := g.frame(origin, 1, 7)
	reg, store := newTestRegistry(t, g)

	p := mustCreate(t, reg, at("world", 0, 64, 0), Nether)

	assert.True(t, p.Valid())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 1, store.Saves())
	for _, positions := range [][]Position{shape.Opening, shape.Frame, shape.Base, {origin}} {
		for _, pos := range positions {
			assert.Same(t, p, reg.PortalAt(pos), "position %s", pos)
		}
	}
}

func TestCreatePortal_InvalidStillRegistered(t *testing.T) {
	reg, store := newTestRegistry(t, newFakeGeometry())

	p := mustCreate(t, reg, at("world", 3, 70, 3), End)

	assert.False(t, p.Valid())
	assert.Same(t, p, reg.PortalAt(Position{World: "world", X: 3, Y: 70, Z: 3}))
	assert.Equal(t, 1, store.Saves())
}

func TestCreatePortal_SaveFailureKeepsPortal(t *testing.T) {
	g := newFakeGeometry()
	g.frame(Position{World: "world", Y: 64}, 1, 7)
	reg, store := newTestRegistry(t, g)
	cause := fmt.Errorf("disk full")
	store.WithSaveError(cause)

	p, err := reg.CreatePortal(context.Background(), at("world", 0, 64, 0), Nether)

	assert.ErrorIs(t, err, cause)
	require.NotNil(t, p)
	assert.Equal(t, 1, reg.Len())
	assert.Same(t, p, reg.PortalAt(Position{World: "world", Y: 65}))
}

func TestCreatePortal_UnknownType(t *testing.T) {
	reg, store := newTestRegistry(t, newFakeGeometry())

	p, err := reg.CreatePortal(context.Background(), at("world", 0, 64, 0), PortalType(42))

	assert.Nil(t, p)
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, store.Saves())
}

func TestRemovePortal(t *testing.T) {
	g := newFakeGeometry()
	g.frame(Position{World: "world", Y: 64}, 1, 1)
	g.frame(Position{World: "world", X: 10, Y: 64}, 1, 2)
	reg, store := newTestRegistry(t, g)
	a := mustCreate(t, reg, at("world", 0, 64, 0), Nether)
	b := mustCreate(t, reg, at("world", 10, 64, 0), Nether)
	require.NoError(t, a.Dial(reg, 2))

	require.NoError(t, reg.RemovePortal(context.Background(), b))

	assert.Equal(t, []*Portal{a}, reg.Portals())
	assert.Empty(t, reg.Index().Owned(b))
	assert.Nil(t, reg.PortalAt(Position{World: "world", X: 10, Y: 65}))
	assert.Nil(t, a.Dialed(), "portals dialed to a removed portal are disconnected")
	assert.False(t, b.Destroyed(), "remove does not destroy")
	assert.Equal(t, 3, store.Saves())

	err := reg.RemovePortal(context.Background(), b)
	assert.True(t, errors.IsNotFound(err))
}

func TestDestroyPortal(t *testing.T) {
	g := newFakeGeometry()
	g.frame(Position{World: "world", Y: 64}, 1, 1)
	reg, _ := newTestRegistry(t, g)
	p := mustCreate(t, reg, at("world", 0, 64, 0), Nether)

	require.NoError(t, reg.DestroyPortal(context.Background(), p))

	assert.True(t, p.Destroyed())
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, reg.Index().Len())
	assert.Len(t, g.released, 1)

	assert.True(t, errors.IsNotFound(reg.DestroyPortal(context.Background(), p)))
	assert.Len(t, g.released, 1)
}

func TestReindexPortal(t *testing.T) {
	g := newFakeGeometry()
	origin := Position{World: "world", Y: 64}
	g.frame(origin, 1, 1)
	reg, _ := newTestRegistry(t, g)
	p := mustCreate(t, reg, at("world", 0, 64, 0), Nether)

	// the structure shrinks to its location
	g.point(origin, 1, 1)
	_, err := p.Update()
	require.NoError(t, err)
	require.NoError(t, reg.ReindexPortal(p))

	assert.ElementsMatch(t, []Position{origin}, reg.Index().Owned(p))
	assert.Nil(t, reg.PortalAt(origin.Offset(0, 1, 0)))

	stranger := NewPortal(g, at("world", 0, 64, 0), Nether)
	assert.True(t, errors.IsNotFound(reg.ReindexPortal(stranger)))

	p.Destroy()
	assert.True(t, errors.IsDestroyed(reg.ReindexPortal(p)))
}

func TestUpdatePortal(t *testing.T) {
	g := newFakeGeometry()
	origin := Position{World: "world", Y: 64}
	reg, _ := newTestRegistry(t, g)
	p := mustCreate(t, reg, at("world", 0, 64, 0), Nether)
	require.False(t, p.Valid())

	g.frame(origin, 3, 4)
	valid, err := reg.UpdatePortal(p)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Same(t, p, reg.PortalAt(origin.Offset(0, 2, 0)))
	assert.Same(t, p, reg.FindByAddress(Int(3), Int(4), Bool(true)))
}

func TestUpdatePortal_InvalidTargetDisconnectsDialers(t *testing.T) {
	g := newFakeGeometry()
	g.frame(Position{World: "world", Y: 64}, 1, 1)
	bPos := Position{World: "world", X: 10, Y: 64}
	g.frame(bPos, 1, 2)
	reg, _ := newTestRegistry(t, g)
	a := mustCreate(t, reg, at("world", 0, 64, 0), Nether)
	b := mustCreate(t, reg, at("world", 10, 64, 0), Nether)
	require.NoError(t, a.Dial(reg, 2))

	// b's frame breaks but the structure still reports its address
	g.shapes[bPos] = Shape{Valid: false, Network: Int(1), Address: Int(2)}
	valid, err := reg.UpdatePortal(b)
	require.NoError(t, err)
	require.False(t, valid)

	assert.Nil(t, a.Dialed())
	doc := EncodeDocument(reg.Portals(), time.Now())
	assert.False(t, doc.Section(KeyPortals).Section("0").Contains(KeyDialed))
}

func TestFindByAddress(t *testing.T) {
	t.Run("nil matches only nil", func(t *testing.T) {
		g := newFakeGeometry()
		g.shapes[Position{World: "world"}] = Shape{Valid: true}
		g.point(Position{World: "world", X: 5}, 1, 2)
		reg, _ := newTestRegistry(t, g)
		unaddressed := mustCreate(t, reg, at("world", 0, 0, 0), Nether)
		addressed := mustCreate(t, reg, at("world", 5, 0, 0), Nether)

		assert.Same(t, unaddressed, reg.FindByAddress(nil, nil, nil))
		assert.Same(t, addressed, reg.FindByAddress(Int(1), Int(2), nil))
		assert.Nil(t, reg.FindByAddress(nil, Int(2), nil))
		assert.Nil(t, reg.FindByAddress(Int(1), nil, nil))
		assert.Nil(t, reg.FindByAddress(Int(1), Int(3), nil))
	})

	t.Run("validity filter", func(t *testing.T) {
		g := newFakeGeometry()
		reg, _ := newTestRegistry(t, g)
		invalid := mustCreate(t, reg, at("world", 0, 0, 0), Nether)

		assert.Same(t, invalid, reg.FindByAddress(nil, nil, Bool(false)))
		assert.Nil(t, reg.FindByAddress(nil, nil, Bool(true)))
	})

	for _, reversed := range []bool{false, true} {
		t.Run(fmt.Sprintf("validity filter ignores insertion order reversed=%v", reversed), func(t *testing.T) {
			g := newFakeGeometry()
			g.shapes[Position{World: "world", X: 1}] = Shape{Valid: false, Network: Int(1), Address: Int(5)}
			g.point(Position{World: "world", X: 2}, 1, 5)
			reg, _ := newTestRegistry(t, g)

			invalidLoc, validLoc := at("world", 1, 0, 0), at("world", 2, 0, 0)
			var invalid, valid *Portal
			if reversed {
				valid = mustCreate(t, reg, validLoc, Nether)
				invalid = mustCreate(t, reg, invalidLoc, Nether)
			} else {
				invalid = mustCreate(t, reg, invalidLoc, Nether)
				valid = mustCreate(t, reg, validLoc, Nether)
			}
			require.False(t, invalid.Valid())
			require.Equal(t, 5, *invalid.Address())

			assert.Same(t, valid, reg.FindByAddress(Int(1), Int(5), Bool(true)))
			assert.Same(t, invalid, reg.FindByAddress(Int(1), Int(5), Bool(false)))
		})

		t.Run(fmt.Sprintf("first inserted wins reversed=%v", reversed), func(t *testing.T) {
			g := newFakeGeometry()
			g.point(Position{World: "world", X: 1}, 1, 9)
			g.point(Position{World: "world", X: 2}, 1, 9)
			reg, _ := newTestRegistry(t, g)

			locs := []Location{at("world", 1, 0, 0), at("world", 2, 0, 0)}
			if reversed {
				locs[0], locs[1] = locs[1], locs[0]
			}
			first := mustCreate(t, reg, locs[0], Nether)
			mustCreate(t, reg, locs[1], Nether)

			for range 3 {
				assert.Same(t, first, reg.FindByAddress(Int(1), Int(9), Bool(true)))
			}
		})
	}
}

func TestFindAt_ScanOrder(t *testing.T) {
	g := newFakeGeometry()
	// candidates around (0,64,0) at radius 1
	g.point(Position{World: "world", X: 1, Y: 64, Z: 0}, 1, 1)   // dx=+1
	g.point(Position{World: "world", X: -1, Y: 65, Z: 1}, 1, 2)  // dx=-1 dy=+1 dz=+1
	g.point(Position{World: "world", X: -1, Y: 65, Z: -1}, 1, 3) // dx=-1 dy=+1 dz=-1
	reg, _ := newTestRegistry(t, g)
	east := mustCreate(t, reg, at("world", 1, 64, 0), Nether)
	upSouth := mustCreate(t, reg, at("world", -1, 65, 1), Nether)
	upNorth := mustCreate(t, reg, at("world", -1, 65, -1), Nether)
	// invalid portal visited before all others: dx=-1 dy=-1 dz=-1
	invalid := mustCreate(t, reg, at("world", -1, 63, -1), Nether)

	center := Position{World: "world", X: 0, Y: 64, Z: 0}

	assert.Same(t, invalid, reg.FindAt(center, nil, 1))
	assert.Same(t, upNorth, reg.FindAt(center, Bool(true), 1), "z ascends inside y")
	assert.Same(t, invalid, reg.FindAt(center, Bool(false), 1))

	require.NoError(t, reg.RemovePortal(context.Background(), upNorth))
	assert.Same(t, upSouth, reg.FindAt(center, Bool(true), 1))

	require.NoError(t, reg.RemovePortal(context.Background(), upSouth))
	assert.Same(t, east, reg.FindAt(center, Bool(true), 1), "x is the outermost loop")

	assert.Nil(t, reg.FindAt(center, nil, 0))
	assert.Same(t, east, reg.FindAt(Position{World: "world", X: 1, Y: 64}, nil, 0))
	assert.Nil(t, reg.FindAt(Position{World: "world", X: 1, Y: 64}, nil, -1))
}

func TestFindAt_WorldIsPartOfPosition(t *testing.T) {
	g := newFakeGeometry()
	g.point(Position{World: "world", X: 4, Y: 64, Z: 4}, 1, 1)
	reg, _ := newTestRegistry(t, g)
	p := mustCreate(t, reg, at("world", 4, 64, 4), Nether)

	assert.Same(t, p, reg.FindNear(Position{World: "world", X: 3, Y: 64, Z: 3}, 1))
	assert.Nil(t, reg.FindNear(Position{World: "world_nether", X: 3, Y: 64, Z: 3}, 1))
	assert.Nil(t, reg.FindNear(Position{World: "world", X: 2, Y: 64, Z: 2}, 1))
}

func TestRegistry_Metrics(t *testing.T) {
	g := newFakeGeometry()
	g.point(Position{World: "world"}, 1, 1)
	promReg := prometheus.NewRegistry()
	reg, store := newTestRegistry(t, g, WithRegisterer(promReg))

	mustCreate(t, reg, at("world", 0, 0, 0), Nether)
	mustCreate(t, reg, at("world", 9, 0, 0), Nether)
	reg.FindByAddress(Int(1), Int(1), nil)
	reg.FindByAddress(Int(1), Int(5), nil)
	reg.PortalAt(Position{World: "world"})

	store.WithSaveError(fmt.Errorf("boom"))
	assert.Error(t, reg.Save(context.Background()))

	m := reg.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Portals.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Portals.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("address", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("address", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("position", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Saves.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Saves.WithLabelValues("error")))

	count, err := testutil.GatherAndCount(promReg, "portalnetwork_portals", "portalnetwork_saves_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRegistry_Spans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	reg, _ := newTestRegistry(t, newFakeGeometry(), WithTracerProvider(tp))
	mustCreate(t, reg, at("world", 0, 0, 0), Hidden)

	spans := exp.GetSpans()
	require.Len(t, spans, 2)
	// children end first
	assert.Equal(t, "portalnetwork.Save", spans[0].Name)
	assert.Equal(t, "portalnetwork.CreatePortal", spans[1].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func TestRegistry_SaveWithoutStore(t *testing.T) {
	reg := New(nil, nil, WithLogger(quietLogger()))
	assert.True(t, errors.IsValidationError(reg.Save(context.Background())))
}
