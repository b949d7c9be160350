/*
Package errors provides semantic error types for the portal network.

The package defines the failure categories of the registry and its document
stores. They can be checked with the standard errors.Is() function or the
provided helper functions.

Common Errors:

	var (
	    ErrNotFound        = errors.New("not found")
	    ErrNoPriorData     = errors.New("no prior data")
	    ErrReadFailed      = errors.New("document read failed")
	    ErrMalformedRecord = errors.New("malformed record")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrDestroyed       = errors.New("portal destroyed")
	    ErrNotValid        = errors.New("portal not valid")
	    ErrClosed          = errors.New("closed")
	)

Only ErrReadFailed is ever returned from Registry.Load; a missing document
(ErrNoPriorData) is treated as a first run. Malformed records and failed dials
are skipped during load and only reported through logs and the load report.

Usage:

	report, err := reg.Load(ctx)
	if errors.IsReadFailed(err) {
	    // the registry is empty but usable; the document on disk is damaged
	}

	if err := portal.Dial(reg, 42); errors.IsNotFound(err) {
	    // no valid portal with address 42 on this network
	}
*/
package errors
