// Package event defines the data model shared by the bus: priority tiers,
// the per-event lifecycle state machine, type tags, and event metadata.
//
// It is a leaf package with no dependencies on the rest of the module so
// that queue, dispatch, and the bus itself can all import it freely.
package event
