/*
Package portalnetwork keeps a registry of portals placed in a block world.

Every portal occupies a set of integer positions (its opening, frame and base,
plus its own location) and may carry a network and an address. The registry
resolves a position to its owning portal in constant time, resolves
(network, address) pairs to portals, persists itself to a document store, and
restores itself on startup, re-establishing dial connections between portals.

Key Features:
  - Position index rebuilt from the portal's shape on every reindex
  - Address lookup with nil-matches-only-nil semantics
  - Radius search over a cube with a fixed, deterministic visit order
  - Load protocol that replays dials only after every portal is registered
  - Pluggable document stores (YAML file, DynamoDB, SQLite, in-memory)
  - Prometheus metrics, OpenTelemetry spans and slog logging
  - Actor for serialized access from concurrent hosts

The shape of a portal comes from a Geometry supplied by the host; the registry
never inspects the world itself.

Basic Usage:

	store := yamlfile.New("plugins/PortalNetwork/portal-data.yml")
	reg := portalnetwork.New(store, geometry,
	    portalnetwork.WithLogger(logger),
	    portalnetwork.WithRegisterer(prometheus.DefaultRegisterer),
	)

	report, err := reg.Load(ctx)
	if errors.IsReadFailed(err) {
	    // the registry is empty; the document could not be read
	}

	portal, err := reg.CreatePortal(ctx, loc, portalnetwork.Nether)
	target := reg.FindByAddress(portal.Network(), portalnetwork.Int(7), portalnetwork.Bool(true))
	near := reg.FindNear(loc.Position(), 2)

Persisted document layout:

	saved_at: "2025-03-01T12:00:00.000Z"
	version: 1.0.0
	portals:
	  "0":
	    location: {world: world, x: 10.5, y: 64, z: -3, yaw: 90, pitch: 0}
	    portal_type: NETHER
	    valid: true
	    dialed: 7
*/
package portalnetwork
