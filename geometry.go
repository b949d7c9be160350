/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

// Shape is the result of inspecting a portal placement.
type Shape struct {
	Valid bool

	// Network and Address are nil when the structure does not encode them.
	Network *int
	Address *int

	Opening []Position
	Frame   []Position
	Base    []Position
}

// Geometry inspects the world around a portal. Implementations belong to the
// host; the registry treats them as a black box.
type Geometry interface {
	// Inspect validates the structure at loc and reports the positions it occupies.
	Inspect(loc Location, portalType PortalType) Shape

	// Release undoes any world changes made for a portal that is being destroyed.
	Release(loc Location, portalType PortalType)
}

// GeometryFuncs adapts plain functions to Geometry. A nil InspectFunc reports
// every placement as invalid and a nil ReleaseFunc does nothing.
type GeometryFuncs struct {
	InspectFunc func(loc Location, portalType PortalType) Shape
	ReleaseFunc func(loc Location, portalType PortalType)
}

func (g GeometryFuncs) Inspect(loc Location, portalType PortalType) Shape {
	if g.InspectFunc == nil {
		return Shape{}
	}
	return g.InspectFunc(loc, portalType)
}

func (g GeometryFuncs) Release(loc Location, portalType PortalType) {
	if g.ReleaseFunc != nil {
		g.ReleaseFunc(loc, portalType)
	}
}
