// Package equiv decides structural equivalence of query pattern trees.
//
// Two trees are equivalent when an injective variable renaming exists
// under which they are structurally identical. The renaming is built
// incrementally while the trees are walked: UNION branches may match in
// either pairing (set semantics), triples inside a BGP may match in any
// order, and sibling sequences must match position-wise. Filters,
// solution modifiers, projection names, and limit/offset carry no weight.
//
// The search backtracks over per-BGP triple assignments and is
// exponential in the triple count of a single BGP in the worst case.
// Injectivity checks and early constant mismatches prune aggressively,
// which is sufficient for the tens-of-triples queries this package is
// built for; adversarial inputs are out of scope.
package equiv
