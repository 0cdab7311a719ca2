package pattern

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Serialize renders the query as canonical SPARQL text: prologue, SELECT
// clause, WHERE block with one indent level per nesting depth, then the
// solution modifiers in fixed order (GROUP BY, HAVING, ORDER BY, LIMIT,
// OFFSET).
func (q *Query) Serialize() (string, error) {
	var b strings.Builder

	if len(q.Prefixes) > 0 {
		names := make([]string, 0, len(q.Prefixes))
		for pfx := range q.Prefixes {
			names = append(names, pfx)
		}
		sort.Strings(names)
		for _, pfx := range names {
			fmt.Fprintf(&b, "PREFIX %s: <%s>\n", pfx, q.Prefixes[pfx])
		}
	}

	b.WriteString("SELECT ")
	if q.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(q.projectionString())
	b.WriteString("\n")

	if q.Graph != "" {
		fmt.Fprintf(&b, "FROM <%s>\n", q.Graph)
	}

	b.WriteString("WHERE {\n")
	if q.Where != nil {
		body, err := serializePattern(q.Where, 1)
		if err != nil {
			return "", err
		}
		b.WriteString(body)
	}
	for _, f := range q.Filters {
		fmt.Fprintf(&b, "  FILTER(%s)\n", f.Expression)
	}
	b.WriteString("}")

	if q.GroupBy != nil && len(q.GroupBy.Variables) > 0 {
		fmt.Fprintf(&b, "\nGROUP BY %s", strings.Join(q.GroupBy.Variables, " "))
	}
	for _, h := range q.Having {
		fmt.Fprintf(&b, "\nHAVING(%s)", h.Expression)
	}
	if q.OrderBy != nil && len(q.OrderBy.Variables) > 0 {
		terms := make([]string, len(q.OrderBy.Variables))
		for i, v := range q.OrderBy.Variables {
			dir := "ASC"
			if !q.OrderBy.direction(i) {
				dir = "DESC"
			}
			terms[i] = fmt.Sprintf("%s(%s)", dir, v)
		}
		fmt.Fprintf(&b, "\nORDER BY %s", strings.Join(terms, " "))
	}
	if q.Limit != nil {
		fmt.Fprintf(&b, "\nLIMIT %d", *q.Limit)
	}
	if q.Offset != nil {
		fmt.Fprintf(&b, "\nOFFSET %d", *q.Offset)
	}

	return b.String(), nil
}

// String renders the query, substituting an error notice if the tree is
// malformed. Serialize is the primary form for callers that must detect
// failure.
func (q *Query) String() string {
	s, err := q.Serialize()
	if err != nil {
		return fmt.Sprintf("/* unserializable query: %v */", err)
	}
	return s
}

// projectionString joins plain projection variables and aggregate terms.
func (q *Query) projectionString() string {
	if len(q.Aggregations) == 0 {
		return strings.Join(q.Projection, " ")
	}
	var parts []string
	if !q.IsWildcard() {
		parts = append(parts, q.Projection...)
	}
	for _, a := range q.Aggregations {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// Canonical returns the NFC-normalized serialization. Golden comparisons
// and content hashing go through this form so that differently composed
// Unicode in literals cannot produce spurious diffs.
func Canonical(q *Query) (string, error) {
	s, err := q.Serialize()
	if err != nil {
		return "", err
	}
	return norm.NFC.String(s), nil
}

func serializePattern(p Pattern, indent int) (string, error) {
	ind := strings.Repeat("  ", indent)
	switch v := p.(type) {
	case *TriplePattern:
		return fmt.Sprintf("%s%s %s %s .\n", ind, v.Subject, v.Predicate, v.Object), nil

	case *BGP:
		var b strings.Builder
		for _, t := range v.Triples {
			fmt.Fprintf(&b, "%s%s %s %s .\n", ind, t.Subject, t.Predicate, t.Object)
		}
		for _, f := range v.Filters {
			fmt.Fprintf(&b, "%sFILTER(%s)\n", ind, f.Expression)
		}
		return b.String(), nil

	case *Union:
		left, err := serializePattern(v.Left, indent+1)
		if err != nil {
			return "", err
		}
		right, err := serializePattern(v.Right, indent+1)
		if err != nil {
			return "", err
		}
		return ind + "{\n" + left + ind + "} UNION {\n" + right + ind + "}\n", nil

	case *Optional:
		inner, err := serializePattern(v.Inner, indent+1)
		if err != nil {
			return "", err
		}
		return ind + "OPTIONAL {\n" + inner + ind + "}\n", nil

	case *Group:
		var b strings.Builder
		b.WriteString(ind + "{\n")
		if v.Inner != nil {
			inner, err := serializePattern(v.Inner, indent+1)
			if err != nil {
				return "", err
			}
			b.WriteString(inner)
		}
		for _, f := range v.Filters {
			fmt.Fprintf(&b, "%s  FILTER(%s)\n", ind, f.Expression)
		}
		b.WriteString(ind + "}\n")
		return b.String(), nil

	case *SubQuery:
		text, err := v.Query.Serialize()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString(ind + "{\n")
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(ind + line + "\n")
		}
		b.WriteString(ind + "}\n")
		return b.String(), nil

	case *Sequence:
		var b strings.Builder
		for _, item := range v.Items {
			s, err := serializePattern(item, indent)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		return b.String(), nil

	default:
		return "", unknownKind(p)
	}
}
