package authors

import "strings"

// ambigTag marks a node holding multiple derivations of the same rule
// over the same span of input.
const ambigTag = "_ambig"

// node is one vertex of a parse tree. Interior nodes carry the grammar
// rule name, or a production alias, as their tag.
type node struct {
	tag      string
	alias    bool
	children []child
}

// child is one slot of a node: a subtree, a terminal token, or a
// placeholder for an optional element that did not match. Placeholders
// still count when scoring candidate parses.
type child struct {
	sub    *node
	token  string
	absent bool
}

func subtree(n *node) child { return child{sub: n} }
func token(v string) child  { return child{token: v} }
func absent() child         { return child{absent: true} }

// tokens returns the terminal values attached directly to n, skipping
// placeholders and subtrees.
func (n *node) tokens() []string {
	var vals []string
	for _, c := range n.children {
		if c.sub == nil && !c.absent {
			vals = append(vals, c.token)
		}
	}
	return vals
}

// score rates a candidate parse by the total child count across all of
// its nodes. Parses that break the input into more, smaller pieces
// outscore parses built from fewer, larger terminals.
func score(n *node) int {
	total := len(n.children)
	for _, c := range n.children {
		if c.sub != nil {
			total += score(c.sub)
		}
	}
	return total
}

// resolveAmbiguities collapses every ambiguity node to a single
// derivation, innermost first. Among candidates the first one with the
// highest score wins, so equal scores fall back to production order.
func resolveAmbiguities(n *node) *node {
	for i, c := range n.children {
		if c.sub != nil {
			n.children[i].sub = resolveAmbiguities(c.sub)
		}
	}
	if n.tag != ambigTag {
		return n
	}
	best := n.children[0].sub
	bestScore := score(best)
	for _, c := range n.children[1:] {
		if s := score(c.sub); s > bestScore {
			best = c.sub
			bestScore = s
		}
	}
	return best
}

// sketch renders a tree in a compact single-line form for debugging
// and test failure messages.
func sketch(n *node) string {
	var b strings.Builder
	b.WriteString(n.tag)
	b.WriteString("(")
	for i, c := range n.children {
		if i > 0 {
			b.WriteString(" ")
		}
		switch {
		case c.sub != nil:
			b.WriteString(sketch(c.sub))
		case c.absent:
			b.WriteString("_")
		default:
			b.WriteString(c.token)
		}
	}
	b.WriteString(")")
	return b.String()
}
