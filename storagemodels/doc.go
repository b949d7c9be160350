/*
Package storagemodels defines the document model shared by the portal registry
and every document store.

Section:
A Section is an ordered tree of key/value pairs, the logical shape of a
configuration document independent of how a backend serializes it:

	root := storagemodels.NewSection()
	portals := root.CreateSection("portals")
	p := portals.CreateSection("0")
	p.Set("portal_type", "NETHER")
	p.Set("valid", true)

	if dialed, ok := p.Int("dialed"); ok {
	    // ...
	}

Typed getters return a second boolean reporting whether the key exists with a
compatible type. Int accepts whole-valued floats because JSON and DynamoDB
decoders produce float64 for every number.

Backends without ordered maps (JSON, DynamoDB) rebuild sections with FromMap,
which orders keys with SortKeys: ordinal keys numerically first, then the rest
lexically.
*/
package storagemodels
