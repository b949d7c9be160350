// Package yamlfile stores the portal document as a YAML file.
//
// The file layout mirrors the section tree one to one:
//
//	portals:
//	  "0":
//	    dialed: 12
//	    portal_type: NETHER
//	    location:
//	      world: overworld
//	      x: 10.5
//	      y: 64
//	      z: -3.5
//	      yaw: 90
//	      pitch: 0
//	    valid: true
//
// Key order is preserved on load and save. Writes go through a temporary file
// and an atomic rename.
package yamlfile
