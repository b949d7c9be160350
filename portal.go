/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"fmt"
	"iter"
	"slices"

	"github.com/suparena/portalnetwork/errors"
)

// AddressResolver finds portals by network address. Registry implements it.
// A nil argument matches only portals whose value is also unset; a nil valid
// accepts any validity. Matches are yielded in registration order.
type AddressResolver interface {
	PortalsByAddress(network, address *int, valid *bool) iter.Seq[*Portal]
}

// Portal is a single portal structure. Its shape is derived from the world by
// the Geometry collaborator on every Update.
//
// A Portal is not safe for concurrent use; see Actor.
type Portal struct {
	geometry   Geometry
	location   Location
	portalType PortalType

	network *int
	address *int
	valid   bool

	destroyed bool
	dialed    *Portal

	opening []Position
	frame   []Position
	base    []Position
}

// NewPortal creates an uninitialized portal. It is invalid and occupies no
// positions until Update is called.
func NewPortal(geometry Geometry, location Location, portalType PortalType) *Portal {
	if geometry == nil {
		geometry = GeometryFuncs{}
	}
	return &Portal{
		geometry:   geometry,
		location:   location,
		portalType: portalType,
	}
}

func (p *Portal) Location() Location {
	return p.location
}

func (p *Portal) Type() PortalType {
	return p.portalType
}

// Network returns a copy of the portal's network, or nil when it has none.
func (p *Portal) Network() *int {
	return cloneInt(p.network)
}

// Address returns a copy of the portal's address, or nil when it has none.
func (p *Portal) Address() *int {
	return cloneInt(p.address)
}

func (p *Portal) Valid() bool {
	return p.valid
}

func (p *Portal) Destroyed() bool {
	return p.destroyed
}

// Opening returns the positions of the portal's opening.
func (p *Portal) Opening() iter.Seq[Position] {
	return slices.Values(p.opening)
}

// Frame returns the positions of the portal's frame.
func (p *Portal) Frame() iter.Seq[Position] {
	return slices.Values(p.frame)
}

// Base returns the positions of the portal's base.
func (p *Portal) Base() iter.Seq[Position] {
	return slices.Values(p.base)
}

// Update re-inspects the portal's structure and reports whether it is valid.
// Becoming invalid is a state change, not an error, and drops any dial.
// Destroyed portals cannot be updated.
func (p *Portal) Update() (bool, error) {
	if p.destroyed {
		return false, fmt.Errorf("update %s: %w", p, errors.ErrDestroyed)
	}

	shape := p.geometry.Inspect(p.location, p.portalType)
	p.valid = shape.Valid
	p.network = cloneInt(shape.Network)
	p.address = cloneInt(shape.Address)
	p.opening = slices.Clone(shape.Opening)
	p.frame = slices.Clone(shape.Frame)
	p.base = slices.Clone(shape.Base)

	if !p.valid {
		p.dialed = nil
	}
	return p.valid, nil
}

// Dial connects the portal to the first other valid portal with the given
// address on its own network. On failure the portal is left undialed and a *errors.DialError
// is returned.
func (p *Portal) Dial(resolver AddressResolver, address int) error {
	if err := p.canDial(); err != nil {
		p.dialed = nil
		return errors.NewDialError(address, err)
	}

	// the first valid match other than p wins
	self := false
	for target := range resolver.PortalsByAddress(p.network, Int(address), Bool(true)) {
		if target == p {
			self = true
			continue
		}
		p.dialed = target
		return nil
	}

	p.dialed = nil
	if self {
		return errors.NewDialError(address, errors.NewValidationError("address", "portal cannot dial itself"))
	}
	return errors.NewDialError(address, errors.NewNotFoundError("portal", p.networkAddress(address)))
}

// DialPortal connects the portal directly to target, which must be a different
// valid portal with an address.
func (p *Portal) DialPortal(target *Portal) error {
	if target == nil {
		return errors.NewValidationError("target", "target is nil")
	}
	address := -1
	if target.address != nil {
		address = *target.address
	}
	if err := p.canDial(); err != nil {
		return errors.NewDialError(address, err)
	}
	switch {
	case target == p:
		return errors.NewDialError(address, errors.NewValidationError("target", "portal cannot dial itself"))
	case target.destroyed:
		return errors.NewDialError(address, errors.ErrDestroyed)
	case !target.valid:
		return errors.NewDialError(address, errors.ErrNotValid)
	case target.address == nil:
		return errors.NewDialError(address, errors.NewValidationError("target", "target has no address"))
	}

	p.dialed = target
	return nil
}

func (p *Portal) canDial() error {
	if p.destroyed {
		return errors.ErrDestroyed
	}
	if !p.valid {
		return errors.ErrNotValid
	}
	return nil
}

// Undial disconnects the portal. It is a no-op for undialed portals.
func (p *Portal) Undial() {
	p.dialed = nil
}

// Dialed returns the connected portal, or nil.
func (p *Portal) Dialed() *Portal {
	return p.dialed
}

// DialedAddress returns the address of the connected portal. ok is false when
// the portal is undialed or the target has lost its address.
func (p *Portal) DialedAddress() (address int, ok bool) {
	if p.dialed == nil || p.dialed.address == nil {
		return 0, false
	}
	return *p.dialed.address, true
}

// Destroy releases the portal's structure. The portal becomes invalid, loses
// its dial and shape, and refuses further updates. Destroying twice is a no-op.
func (p *Portal) Destroy() {
	if p.destroyed {
		return
	}
	p.geometry.Release(p.location, p.portalType)

	p.destroyed = true
	p.valid = false
	p.dialed = nil
	p.network = nil
	p.address = nil
	p.opening = nil
	p.frame = nil
	p.base = nil
}

func (p *Portal) networkAddress(address int) string {
	if p.network == nil {
		return fmt.Sprintf("-/%d", address)
	}
	return fmt.Sprintf("%d/%d", *p.network, address)
}

func (p *Portal) String() string {
	return fmt.Sprintf("%s portal at %s", p.portalType, p.location.Position())
}
