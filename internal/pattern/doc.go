// Package pattern provides the graph pattern data model for SPARQL-style
// queries: a closed set of pattern variants forming a recursive tree, plus
// the mutation, serialization, and analysis operations defined on it.
//
// All pattern terms (subjects, predicates, objects, filter operands) are
// tagged strings: a leading '?' marks a variable, anything else is a
// constant (IRI, prefixed name, or literal). Every comparison and
// substitution in this package tests the sigil, never a separate type tag.
//
// Pattern is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in every traversal (serialize, count, clone,
// instantiate).
//
// Nodes carry non-owning parent back-references set at attachment time,
// so detaching a node is O(1) and removing a wrapper's only child cascades
// upward until a node survives the removal (the Query root accepts a nil
// where-clause).
package pattern
