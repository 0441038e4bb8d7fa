package authors

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Parser turns free-text contributor strings into Author values. By
// default every input is run through the pre-parse repairs first.
type Parser struct {
	preClean bool
}

// Option adjusts parser behavior.
type Option func(*Parser)

// WithoutPreClean disables the pre-parse text repairs, so inputs are
// handed to the grammar exactly as given.
func WithoutPreClean() Option {
	return func(p *Parser) { p.preClean = false }
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{preClean: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseError reports an input the grammar could not match.
type ParseError struct {
	Input string
	Pos   int // byte offset of the furthest point the parse reached
	Index int // position of the input within a batch, set by ParseMany
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d in %q", e.Msg, e.Pos, e.Input)
}

// ParseOne parses a string holding one or more personal names. The
// returned authors are raw parse output; callers usually want to pass
// them through PostClean. A nil ctx deadline means the parse runs to
// completion.
func (p *Parser) ParseOne(ctx context.Context, names string) ([]*Author, error) {
	if p.preClean {
		names = p.preCleanNames(names)
	}
	names = strings.TrimSpace(names)
	root, err := p.parse(ctx, names)
	if err != nil {
		return nil, err
	}
	return unpack(resolveAmbiguities(root)), nil
}

// BatchResult pairs the cleaned authors for one input with the input's
// position in the batch.
type BatchResult struct {
	Index   int
	Authors []*Author
}

// ParseMany parses a batch of inputs, post-cleaning each successful
// result. Inputs the grammar rejects are collected as ParseErrors with
// their batch index set. Context cancellation stops the batch early.
func (p *Parser) ParseMany(ctx context.Context, inputs []string) ([]BatchResult, []*ParseError) {
	var results []BatchResult
	var errs []*ParseError
	for i, names := range inputs {
		parsed, err := p.ParseOne(ctx, names)
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				break
			}
			pe.Index = i
			errs = append(errs, pe)
			continue
		}
		results = append(results, BatchResult{Index: i, Authors: p.PostClean(parsed)})
	}
	return results, errs
}

func (p *Parser) parse(ctx context.Context, names string) (*node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	run := &parseRun{
		ctx:   ctx,
		input: names,
		memo:  make(map[memoKey][]ruleResult),
	}
	results := run.parseRule(ruleAuthors, 0)
	if run.err != nil {
		return nil, run.err
	}
	for _, res := range results {
		if res.end == len(names) {
			return res.n, nil
		}
	}
	return nil, &ParseError{
		Input: names,
		Pos:   run.maxPos,
		Msg:   "no name pattern matches the input",
	}
}

type memoKey struct {
	rule ruleID
	pos  int
}

type ruleResult struct {
	n   *node
	end int
}

// seqState is a partial match of one production: the children gathered
// so far and the input position reached.
type seqState struct {
	kids []child
	pos  int
}

type prodNode struct {
	tag   string
	alias bool
	kids  []child
	end   int
}

// parseRun holds the working state of a single parse: the memo table
// shared across rule invocations plus cancellation bookkeeping.
type parseRun struct {
	ctx    context.Context
	input  string
	memo   map[memoKey][]ruleResult
	calls  int
	maxPos int
	err    error
}

// cancelled polls the context every batch of rule invocations so a
// pathological input can be abandoned mid-parse.
func (r *parseRun) cancelled() bool {
	if r.err != nil {
		return true
	}
	r.calls++
	if r.calls&0xff == 0 {
		if err := r.ctx.Err(); err != nil {
			r.err = err
			return true
		}
	}
	return false
}

// parseRule returns every way the rule can match at pos, one result
// per end position. Multiple derivations over the same span are folded
// into a single ambiguity node for the resolver to settle later.
func (r *parseRun) parseRule(id ruleID, pos int) []ruleResult {
	if r.cancelled() {
		return nil
	}
	key := memoKey{rule: id, pos: pos}
	if res, ok := r.memo[key]; ok {
		return res
	}
	start := []seqState{{pos: pos}}
	var prods []prodNode
	switch id {
	case ruleAuthors:
		prods = collect(prods, tagAuthors, false, r.thenRule(start, ruleSingle))
		prods = collect(prods, tagAuthors, false, r.thenRule(start, ruleMultiple))
	case ruleMultiple:
		prods = collect(prods, tagMultiple, false, r.sepList(start, ","))
		prods = collect(prods, tagMultiple, false, r.sepList(start, ";"))
		prods = collect(prods, tagMultiple, false, r.conjList(start))
	case ruleSingle:
		prods = collect(prods, tagAnFull, true, r.anFull(start))
		prods = collect(prods, tagAnFullLFO, true, r.anFullLFO(start))
		prods = collect(prods, tagAnInit, true, r.anInit(start))
		prods = collect(prods, tagAnInitLFO, true, r.anInitLFO(start))
	case ruleAuthorName:
		prods = collect(prods, tagAuthorName, false, r.authorName(start))
	case ruleInitials:
		prods = collect(prods, tagInitials, false, r.initials(start))
	case ruleDegrees:
		prods = collect(prods, tagDegrees, false, r.degrees(start))
	}
	res := groupBySpan(prods)
	r.memo[key] = res
	return res
}

func collect(prods []prodNode, tag string, alias bool, states []seqState) []prodNode {
	for _, ss := range states {
		prods = append(prods, prodNode{tag: tag, alias: alias, kids: ss.kids, end: ss.pos})
	}
	return prods
}

func groupBySpan(prods []prodNode) []ruleResult {
	byEnd := make(map[int][]*node)
	var order []int
	for _, pr := range prods {
		if _, seen := byEnd[pr.end]; !seen {
			order = append(order, pr.end)
		}
		byEnd[pr.end] = append(byEnd[pr.end], &node{tag: pr.tag, alias: pr.alias, children: pr.kids})
	}
	var res []ruleResult
	for _, end := range order {
		nodes := byEnd[end]
		if len(nodes) == 1 {
			res = append(res, ruleResult{n: nodes[0], end: end})
			continue
		}
		kids := make([]child, len(nodes))
		for i, n := range nodes {
			kids[i] = subtree(n)
		}
		res = append(res, ruleResult{n: &node{tag: ambigTag, children: kids}, end: end})
	}
	return res
}

// Productions. Spaces between tokens are skipped implicitly; the
// spaces combinator enforces positions where the grammar demands at
// least one space.

// single_author "," (single_author ",")* single_author
func (r *parseRun) sepList(start []seqState, sep string) []seqState {
	states := r.thenRule(start, ruleSingle)
	states = r.thenLit(states, sep)
	states = r.thenStar(states, func(ss seqState) []seqState {
		next := r.thenRule([]seqState{ss}, ruleSingle)
		return r.thenLit(next, sep)
	})
	return r.thenRule(states, ruleSingle)
}

// single_author ("," single_author)* [","] _WS CONJUNCTION _WS single_author
func (r *parseRun) conjList(start []seqState) []seqState {
	states := r.thenRule(start, ruleSingle)
	states = r.thenStar(states, func(ss seqState) []seqState {
		next := r.thenLit([]seqState{ss}, ",")
		return r.thenRule(next, ruleSingle)
	})
	states = r.thenOpt(states, func(ss seqState) []seqState {
		return r.thenLit([]seqState{ss}, ",")
	})
	states = r.thenSpaces(states)
	states = r.thenSilentTerm(states, conjRe)
	states = r.thenSpaces(states)
	return r.thenRule(states, ruleSingle)
}

// author_name [_WS initials] _WS author_name [degrees]
func (r *parseRun) anFull(start []seqState) []seqState {
	states := r.thenRule(start, ruleAuthorName)
	states = r.thenMaybe(states, func(ss seqState) []seqState {
		next := r.thenSpaces([]seqState{ss})
		return r.thenRule(next, ruleInitials)
	})
	states = r.thenSpaces(states)
	states = r.thenRule(states, ruleAuthorName)
	return r.optDegrees(states)
}

// author_name "," author_name [_WS initials] [degrees]
func (r *parseRun) anFullLFO(start []seqState) []seqState {
	states := r.thenRule(start, ruleAuthorName)
	states = r.thenLit(states, ",")
	states = r.thenRule(states, ruleAuthorName)
	states = r.thenMaybe(states, func(ss seqState) []seqState {
		next := r.thenSpaces([]seqState{ss})
		return r.thenRule(next, ruleInitials)
	})
	return r.optDegrees(states)
}

// initials _WS author_name [degrees]
func (r *parseRun) anInit(start []seqState) []seqState {
	states := r.thenRule(start, ruleInitials)
	states = r.thenSpaces(states)
	states = r.thenRule(states, ruleAuthorName)
	return r.optDegrees(states)
}

// author_name ("," | _WS) initials [degrees]
func (r *parseRun) anInitLFO(start []seqState) []seqState {
	states := r.thenRule(start, ruleAuthorName)
	states = r.commaOrSpace(states)
	states = r.thenRule(states, ruleInitials)
	return r.optDegrees(states)
}

// NAME_PART (_WS NAME_PART)* [("," | _WS) SUFFIX]
func (r *parseRun) authorName(start []seqState) []seqState {
	states := r.thenTerm(start, namePartRe)
	states = r.thenStar(states, func(ss seqState) []seqState {
		next := r.thenSpaces([]seqState{ss})
		return r.thenTerm(next, namePartRe)
	})
	return r.thenOpt(states, func(ss seqState) []seqState {
		next := r.commaOrSpace([]seqState{ss})
		return r.thenTerm(next, suffixRe)
	})
}

// INITIAL [INITIAL] [INITIAL]
func (r *parseRun) initials(start []seqState) []seqState {
	states := r.thenTerm(start, initialRe)
	states = r.thenMaybe(states, func(ss seqState) []seqState {
		return r.thenTerm([]seqState{ss}, initialRe)
	})
	states = r.thenMaybe(states, func(ss seqState) []seqState {
		return r.thenTerm([]seqState{ss}, initialRe)
	})
	return states
}

// ("," | _WS) DEGREE ("," DEGREE)*
func (r *parseRun) degrees(start []seqState) []seqState {
	states := r.commaOrSpace(start)
	states = r.thenTerm(states, degreeRe)
	return r.thenStar(states, func(ss seqState) []seqState {
		next := r.thenLit([]seqState{ss}, ",")
		return r.thenTerm(next, degreeRe)
	})
}

func (r *parseRun) optDegrees(states []seqState) []seqState {
	return r.thenOpt(states, func(ss seqState) []seqState {
		return r.thenRule([]seqState{ss}, ruleDegrees)
	})
}

func (r *parseRun) commaOrSpace(states []seqState) []seqState {
	out := r.thenLit(states, ",")
	return append(out, r.thenSpaces(states)...)
}

// Sequencing combinators. Every extension copies the child slice so
// branches never share backing arrays.

func extend(ss seqState, c child, end int) seqState {
	kids := make([]child, len(ss.kids)+1)
	copy(kids, ss.kids)
	kids[len(ss.kids)] = c
	return seqState{kids: kids, pos: end}
}

func (r *parseRun) thenRule(states []seqState, id ruleID) []seqState {
	var out []seqState
	for _, ss := range states {
		for _, res := range r.parseRule(id, ss.pos) {
			out = append(out, extend(ss, subtree(res.n), res.end))
		}
	}
	return out
}

func (r *parseRun) thenTerm(states []seqState, re *regexp.Regexp) []seqState {
	var out []seqState
	for _, ss := range states {
		if tok, end, ok := r.term(re, ss.pos); ok {
			out = append(out, extend(ss, token(tok), end))
		}
	}
	return out
}

// thenSilentTerm matches a terminal without keeping it as a child.
func (r *parseRun) thenSilentTerm(states []seqState, re *regexp.Regexp) []seqState {
	var out []seqState
	for _, ss := range states {
		if _, end, ok := r.term(re, ss.pos); ok {
			out = append(out, seqState{kids: ss.kids, pos: end})
		}
	}
	return out
}

func (r *parseRun) thenLit(states []seqState, s string) []seqState {
	var out []seqState
	for _, ss := range states {
		if end, ok := r.lit(s, ss.pos); ok {
			out = append(out, seqState{kids: ss.kids, pos: end})
		}
	}
	return out
}

func (r *parseRun) thenSpaces(states []seqState) []seqState {
	var out []seqState
	for _, ss := range states {
		if end, ok := r.spaces(ss.pos); ok {
			out = append(out, seqState{kids: ss.kids, pos: end})
		}
	}
	return out
}

// thenMaybe explores an optional group; states where the group is
// absent continue with a placeholder child, which counts toward the
// candidate's score.
func (r *parseRun) thenMaybe(states []seqState, step func(seqState) []seqState) []seqState {
	var out []seqState
	for _, ss := range states {
		out = append(out, step(ss)...)
		out = append(out, extend(ss, absent(), ss.pos))
	}
	return out
}

// thenOpt explores an optional group that leaves no trace when absent.
func (r *parseRun) thenOpt(states []seqState, step func(seqState) []seqState) []seqState {
	var out []seqState
	for _, ss := range states {
		out = append(out, step(ss)...)
		out = append(out, ss)
	}
	return out
}

// thenStar explores zero or more repetitions of step. Each repetition
// must consume input, so the frontier always drains.
func (r *parseRun) thenStar(states []seqState, step func(seqState) []seqState) []seqState {
	out := states
	frontier := states
	for len(frontier) > 0 && !r.cancelled() {
		var next []seqState
		for _, ss := range frontier {
			next = append(next, step(ss)...)
		}
		out = append(out, next...)
		frontier = next
	}
	return out
}

// Terminal matching. Leading spaces are skipped before every token.

func (r *parseRun) skipSpaces(pos int) int {
	for pos < len(r.input) && r.input[pos] == ' ' {
		pos++
	}
	return pos
}

func (r *parseRun) term(re *regexp.Regexp, pos int) (string, int, bool) {
	p := r.skipSpaces(pos)
	m := re.FindString(r.input[p:])
	if m == "" {
		r.mark(p)
		return "", 0, false
	}
	end := p + len(m)
	r.mark(end)
	return m, end, true
}

func (r *parseRun) lit(s string, pos int) (int, bool) {
	p := r.skipSpaces(pos)
	if !strings.HasPrefix(r.input[p:], s) {
		r.mark(p)
		return 0, false
	}
	return p + len(s), true
}

// spaces requires at least one literal space at pos.
func (r *parseRun) spaces(pos int) (int, bool) {
	p := r.skipSpaces(pos)
	if p == pos {
		return 0, false
	}
	return p, true
}

func (r *parseRun) mark(pos int) {
	if pos > r.maxPos {
		r.maxPos = pos
	}
}
