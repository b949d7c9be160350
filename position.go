/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"fmt"
	"math"
)

// Position is an integer block coordinate in a named world. It is comparable
// and used directly as a map key.
type Position struct {
	World   string
	X, Y, Z int
}

// Offset returns the position displaced by (dx, dy, dz) in the same world.
func (p Position) Offset(dx, dy, dz int) Position {
	return Position{World: p.World, X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

func (p Position) String() string {
	return fmt.Sprintf("%s(%d,%d,%d)", p.World, p.X, p.Y, p.Z)
}

// Location is the canonical placement of a portal.
type Location struct {
	World   string
	X, Y, Z float64
	Yaw     float32
	Pitch   float32
}

// Position returns the block containing the location. Coordinates are floored,
// so -0.5 belongs to block -1.
func (l Location) Position() Position {
	return Position{
		World: l.World,
		X:     int(math.Floor(l.X)),
		Y:     int(math.Floor(l.Y)),
		Z:     int(math.Floor(l.Z)),
	}
}
