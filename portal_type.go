/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"fmt"

	"github.com/suparena/portalnetwork/registry"
)

// PortalType selects the appearance and behaviour of a portal.
type PortalType int

const (
	Nether PortalType = iota + 1
	End
	Hidden
)

// portalTypes is the persisted name of every portal type.
var portalTypes = registry.NewEnumTable[PortalType]("portal type").
	Register("NETHER", Nether).
	Register("END", End).
	Register("HIDDEN", Hidden)

// ParsePortalType returns the portal type with the given persisted name.
// Names are case sensitive.
func ParsePortalType(name string) (PortalType, error) {
	return portalTypes.Value(name)
}

// PortalTypeNames lists the persisted names of all portal types.
func PortalTypeNames() []string {
	return portalTypes.Names()
}

// Known reports whether t is one of the defined portal types.
func (t PortalType) Known() bool {
	_, ok := portalTypes.Name(t)
	return ok
}

func (t PortalType) String() string {
	if name, ok := portalTypes.Name(t); ok {
		return name
	}
	return fmt.Sprintf("PortalType(%d)", int(t))
}
