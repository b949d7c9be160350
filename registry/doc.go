/*
Package registry holds the lookup tables shared by the portal network and its
storage backends.

Enum Tables:
An EnumTable maps enumeration names to values without reflection, so that
enumerations round-trip through persisted documents by name:

	var portalTypes = registry.NewEnumTable[PortalType]("portal type").
	    Register("NETHER", Nether).
	    Register("END", End)

	t, err := portalTypes.Value("END")
	name, ok := portalTypes.Name(t)

Registering a name or a value twice panics; tables are expected to be built
once during package initialization.

Index Map Registry:
Associates Go item types with key patterns used by composite-key backends:

	registry.RegisterIndexMap[documentItem](map[string]string{
	    "PK": "DOCUMENT#{Document}",
	    "SK": "DOCUMENT#{Document}",
	})

Both registries are safe for concurrent use.
*/
package registry
