/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

// Int returns a pointer to v, for the optional network and address arguments of lookups.
func Int(v int) *int {
	return &v
}

// Bool returns a pointer to v, for the optional validity filter of lookups.
func Bool(v bool) *bool {
	return &v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	return Int(*v)
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
