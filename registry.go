/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/suparena/portalnetwork/datastore"
	"github.com/suparena/portalnetwork/errors"
)

const tracerName = "github.com/suparena/portalnetwork"

// Registry owns every portal, the position index and the persisted document.
//
// A Registry is not safe for concurrent use. Hosts that call it from more than
// one goroutine should go through an Actor.
type Registry struct {
	store    datastore.DocumentStore
	geometry Geometry

	portals []*Portal
	index   *PositionIndex

	logger     *slog.Logger
	registerer prometheus.Registerer
	metrics    *Metrics
	tracer     trace.Tracer
	clock      func() time.Time
}

var _ AddressResolver = (*Registry)(nil)

// New creates an empty registry persisting to store. geometry inspects every
// portal the registry creates or loads.
func New(store datastore.DocumentStore, geometry Geometry, opts ...Option) *Registry {
	if geometry == nil {
		geometry = GeometryFuncs{}
	}
	r := &Registry{
		store:    store,
		geometry: geometry,
		index:    NewPositionIndex(),
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.metrics = NewMetrics(r.registerer)
	return r
}

// CreatePortal builds a portal at location, inspects it, registers it and
// persists the registry. The portal stays registered when the save fails; the
// save error is returned alongside it.
func (r *Registry) CreatePortal(ctx context.Context, location Location, portalType PortalType) (*Portal, error) {
	ctx, span := r.tracer.Start(ctx, "portalnetwork.CreatePortal", trace.WithAttributes(
		attribute.String("portal.type", portalType.String()),
		attribute.String("portal.position", location.Position().String()),
	))
	defer span.End()

	if !portalType.Known() {
		err := errors.NewValidationError("portal_type", fmt.Sprintf("unknown portal type %d", int(portalType)))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	portal := NewPortal(r.geometry, location, portalType)
	r.portals = append(r.portals, portal)
	valid, _ := portal.Update()
	r.index.Reindex(portal)
	r.publishCounts()
	span.SetAttributes(attribute.Bool("portal.valid", valid))

	r.logger.Info("portal created", "portal", portal.String(), "valid", valid)

	if err := r.Save(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return portal, err
	}
	return portal, nil
}

// RemovePortal unregisters portal, purges its index entries, disconnects any
// portal dialed to it and persists the registry. The portal itself is left
// intact; see DestroyPortal.
func (r *Registry) RemovePortal(ctx context.Context, portal *Portal) error {
	i := slices.Index(r.portals, portal)
	if i < 0 {
		return errors.NewNotFoundError("portal", portalKey(portal))
	}
	r.portals = slices.Delete(r.portals, i, i+1)
	r.index.RemoveAll(portal)

	r.undialTargetsOf(portal)
	r.publishCounts()

	r.logger.Info("portal removed", "portal", portal.String())
	return r.Save(ctx)
}

// DestroyPortal releases portal's structure and removes it.
func (r *Registry) DestroyPortal(ctx context.Context, portal *Portal) error {
	if !slices.Contains(r.portals, portal) {
		return errors.NewNotFoundError("portal", portalKey(portal))
	}
	portal.Destroy()
	return r.RemovePortal(ctx, portal)
}

// ReindexPortal re-derives the index entries of a registered portal after its
// shape may have changed.
func (r *Registry) ReindexPortal(portal *Portal) error {
	if !slices.Contains(r.portals, portal) {
		return errors.NewNotFoundError("portal", portalKey(portal))
	}
	if portal.Destroyed() {
		return fmt.Errorf("reindex %s: %w", portal, errors.ErrDestroyed)
	}
	r.index.Reindex(portal)
	r.publishCounts()
	return nil
}

// UpdatePortal re-inspects a registered portal and reindexes it. Portals
// dialed to it are disconnected when it comes back invalid.
func (r *Registry) UpdatePortal(portal *Portal) (bool, error) {
	if !slices.Contains(r.portals, portal) {
		return false, errors.NewNotFoundError("portal", portalKey(portal))
	}
	valid, err := portal.Update()
	if err != nil {
		return false, err
	}
	if !valid {
		r.undialTargetsOf(portal)
	}
	r.index.Reindex(portal)
	r.publishCounts()
	return valid, nil
}

// FindByAddress returns the first registered portal, in insertion order, whose
// network and address equal the arguments. nil matches only an unset value.
// A non-nil valid also filters on validity.
func (r *Registry) FindByAddress(network, address *int, valid *bool) *Portal {
	for portal := range r.PortalsByAddress(network, address, valid) {
		r.metrics.ObserveLookup("address", true)
		return portal
	}
	r.metrics.ObserveLookup("address", false)
	return nil
}

// PortalsByAddress yields every registered portal matching FindByAddress's
// criteria, in insertion order.
func (r *Registry) PortalsByAddress(network, address *int, valid *bool) iter.Seq[*Portal] {
	return func(yield func(*Portal) bool) {
		for _, portal := range r.portals {
			if valid != nil && portal.Valid() != *valid {
				continue
			}
			if !equalInt(portal.network, network) || !equalInt(portal.address, address) {
				continue
			}
			if !yield(portal) {
				return
			}
		}
	}
}

// FindAt searches the cube of the given radius around pos. Offsets are visited
// x outermost, then y, then z, each from -radius to +radius, and the first
// indexed portal passing the validity filter is returned. Radius 0 is an exact
// lookup and a negative radius finds nothing.
func (r *Registry) FindAt(pos Position, valid *bool, radius int) *Portal {
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				portal := r.index.Get(pos.Offset(dx, dy, dz))
				if portal == nil {
					continue
				}
				if valid == nil || portal.Valid() == *valid {
					r.metrics.ObserveLookup("position", true)
					return portal
				}
			}
		}
	}
	r.metrics.ObserveLookup("position", false)
	return nil
}

// PortalAt returns the portal occupying pos, or nil.
func (r *Registry) PortalAt(pos Position) *Portal {
	return r.FindAt(pos, nil, 0)
}

// FindNear returns the first portal within radius of pos, or nil.
func (r *Registry) FindNear(pos Position, radius int) *Portal {
	return r.FindAt(pos, nil, radius)
}

// Portals returns the registered portals in insertion order.
func (r *Registry) Portals() []*Portal {
	return slices.Clone(r.portals)
}

func (r *Registry) Len() int {
	return len(r.portals)
}

// Index exposes the position index for diagnostics.
func (r *Registry) Index() *PositionIndex {
	return r.index
}

// Metrics returns the registry's collectors.
func (r *Registry) Metrics() *Metrics {
	return r.metrics
}

// Save writes every registered portal to the document store, replacing the
// previous document.
func (r *Registry) Save(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "portalnetwork.Save", trace.WithAttributes(
		attribute.Int("portal.count", len(r.portals)),
	))
	defer span.End()

	if r.store == nil {
		err := errors.NewValidationError("store", "registry has no document store")
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	doc := EncodeDocument(r.portals, r.clock())
	err := r.store.Save(ctx, doc)
	r.metrics.ObserveSave(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Warn("failed to save portals", "error", err)
		return fmt.Errorf("save portals: %w", err)
	}

	r.logger.Debug("portals saved", "count", len(r.portals))
	return nil
}

func (r *Registry) publishCounts() {
	valid := 0
	for _, portal := range r.portals {
		if portal.Valid() {
			valid++
		}
	}
	r.metrics.SetPortals(valid, len(r.portals)-valid)
}

// undialTargetsOf disconnects every portal dialed to target.
func (r *Registry) undialTargetsOf(target *Portal) {
	for _, other := range r.portals {
		if other.Dialed() == target {
			other.Undial()
		}
	}
}

func portalKey(portal *Portal) string {
	if portal == nil {
		return "<nil>"
	}
	return portal.Location().Position().String()
}
