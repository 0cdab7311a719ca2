// Package parser turns SELECT query text into the pattern data model.
//
// The grammar covers a practical subset of SPARQL: a PREFIX prologue,
// SELECT with DISTINCT and aggregate terms, an optional FROM graph,
// a WHERE group graph pattern with basic graph patterns, UNION,
// OPTIONAL, nested groups and FILTER constraints, plus GROUP BY,
// HAVING, ORDER BY, LIMIT and OFFSET solution modifiers.
//
// Recognition is all-or-nothing. Input that does not match the grammar
// yields a ParseError; a GROUP BY query that projects a variable it
// neither groups nor aggregates yields a GroupingValidationError.
//
// Within each braced scope the parser records basic graph patterns,
// unions, optionals, groups and filters in the order they appear, so
// the built tree reflects the textual layout of the query. Redundant
// nesting such as {{X}} collapses to X unless the PreserveNesting
// option is set, in which case every inner brace pair becomes an
// explicit Group.
package parser
