// Package construction defines the construction graph for Straightedge.
// A construction is an append-only set of points and the lines between
// them, analogous to a straightedge-and-compass diagram. Structural
// invariants are enforced when entities are inserted; geometric validity
// is decided separately by package verify.
package construction
