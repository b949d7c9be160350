/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

// PositionIndex maps every occupied position to its owning portal.
// There is no reverse index; removing a portal scans all entries.
type PositionIndex struct {
	entries map[Position]*Portal
}

func NewPositionIndex() *PositionIndex {
	return &PositionIndex{entries: make(map[Position]*Portal)}
}

// Put records portal as the owner of pos, replacing any previous owner.
func (x *PositionIndex) Put(pos Position, portal *Portal) {
	x.entries[pos] = portal
}

// Get returns the owner of pos, or nil.
func (x *PositionIndex) Get(pos Position) *Portal {
	return x.entries[pos]
}

// RemoveAll drops every entry owned by portal.
func (x *PositionIndex) RemoveAll(portal *Portal) {
	for pos, owner := range x.entries {
		if owner == portal {
			delete(x.entries, pos)
		}
	}
}

// Reindex replaces the entries of portal with its current opening, frame,
// base and location, in that order.
func (x *PositionIndex) Reindex(portal *Portal) {
	x.RemoveAll(portal)
	for pos := range portal.Opening() {
		x.Put(pos, portal)
	}
	for pos := range portal.Frame() {
		x.Put(pos, portal)
	}
	for pos := range portal.Base() {
		x.Put(pos, portal)
	}
	x.Put(portal.Location().Position(), portal)
}

// Owned returns the positions owned by portal, in no particular order.
func (x *PositionIndex) Owned(portal *Portal) []Position {
	var out []Position
	for pos, owner := range x.entries {
		if owner == portal {
			out = append(out, pos)
		}
	}
	return out
}

func (x *PositionIndex) Len() int {
	return len(x.entries)
}

func (x *PositionIndex) Clear() {
	clear(x.entries)
}
