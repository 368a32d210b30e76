// Package circuit stores the components and nodes of a schematic.
//
// # Overview
//
// A [Store] owns the set of components, indexed by name and kept in insertion
// order, and the node registry derived from their terminals. Nodes are created
// lazily the first time a component references them and are never deleted.
//
// # Virtual Nodes
//
// A node name is split at its first underscore into a root name and a suffix:
// "3_a" and "3_b" are virtual sub-nodes of the root "3". Nodes sharing a root
// name are one visual point; the store keeps a [Group] per root name, ordered
// by first appearance, and [Store.Wires] synthesizes the wire segments that
// make the members touch in a drawing.
//
// # Duplicates
//
// [Store.Upsert] replaces a component whose name is already registered and
// reports the replacement. Nodes attached by the old definition stay
// registered, so derived data (layouts, wires) computed before the
// replacement is stale and must be rebuilt by the caller.
//
// # Concurrency
//
// Store is not safe for concurrent use without external synchronization.
package circuit
