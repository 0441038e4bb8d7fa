package authors

import "testing"

func leafNode(tag string, toks ...string) *node {
	n := &node{tag: tag}
	for _, t := range toks {
		n.children = append(n.children, token(t))
	}
	return n
}

func TestScoreCountsAllChildren(t *testing.T) {
	// authors(an_full(author_name(John) _ author_name(Smith)))
	tree := &node{tag: tagAuthors, children: []child{
		subtree(&node{tag: tagAnFull, alias: true, children: []child{
			subtree(leafNode(tagAuthorName, "John")),
			absent(),
			subtree(leafNode(tagAuthorName, "Smith")),
		}}),
	}}
	if got := score(tree); got != 6 {
		t.Errorf("score = %d, want 6", got)
	}
}

func TestResolveAmbiguitiesPicksDensestCandidate(t *testing.T) {
	sparse := &node{tag: tagAnFull, alias: true, children: []child{
		subtree(leafNode(tagAuthorName, "John Smith")),
		absent(),
		subtree(leafNode(tagAuthorName, "Jane Doe")),
	}}
	dense := &node{tag: tagMultiple, children: []child{
		subtree(&node{tag: tagAnFull, alias: true, children: []child{
			subtree(leafNode(tagAuthorName, "John")),
			absent(),
			subtree(leafNode(tagAuthorName, "Smith")),
		}}),
		subtree(&node{tag: tagAnFull, alias: true, children: []child{
			subtree(leafNode(tagAuthorName, "Jane")),
			absent(),
			subtree(leafNode(tagAuthorName, "Doe")),
		}}),
	}}
	root := &node{tag: ambigTag, children: []child{subtree(sparse), subtree(dense)}}
	if got := resolveAmbiguities(root); got != dense {
		t.Errorf("resolved to %s, want the multi-author candidate", sketch(got))
	}
}

func TestResolveAmbiguitiesTieKeepsFirst(t *testing.T) {
	first := leafNode(tagAuthorName, "A", "B")
	second := leafNode(tagAuthorName, "C", "D")
	root := &node{tag: ambigTag, children: []child{subtree(first), subtree(second)}}
	if got := resolveAmbiguities(root); got != first {
		t.Errorf("resolved to %s, want the first candidate", sketch(got))
	}
}

func TestResolveAmbiguitiesNested(t *testing.T) {
	inner := &node{tag: ambigTag, children: []child{
		subtree(leafNode(tagInitials, "J")),
		subtree(leafNode(tagInitials, "J", "A")),
	}}
	root := &node{tag: tagAnInit, alias: true, children: []child{
		subtree(inner),
		subtree(leafNode(tagAuthorName, "Smith")),
	}}
	got := resolveAmbiguities(root)
	if got != root {
		t.Fatalf("root should survive resolution")
	}
	picked := got.children[0].sub
	if picked.tag != tagInitials || len(picked.children) != 2 {
		t.Errorf("inner ambiguity resolved to %s, want two-initial candidate", sketch(picked))
	}
}
