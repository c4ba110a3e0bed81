package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/lexgen/lexer"
	"github.com/coregx/lexgen/nfa"
)

// requireSyntaxError asserts that err is a *SyntaxError of the given kind,
// shared by the stray-token/malformed-bracket tests below.
func requireSyntaxError(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	var se *SyntaxError
	require.True(t, errors.As(err, &se), "got %v, want a *SyntaxError", err)
	require.Equal(t, want, se.Kind)
}

func build(t *testing.T, src string, macros lexer.MacroTable) *nfa.NFA {
	t.Helper()
	b, frag, err := CompileOne(src, macros, nil)
	if err != nil {
		t.Fatalf("CompileOne(%q): %v", src, err)
	}
	got, err := b.Build(frag.Start)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return got
}

// scenario 1: "a" compiles to a two-node fragment, a literal edge to an
// accepting end node once an action is attached.
func TestLiteral(t *testing.T) {
	n := build(t, "a  accept1();", nil)
	start := n.Node(n.Start())
	if start.Edge() != nfa.Edge('a') {
		t.Fatalf("start edge = %v, want 'a'", start.Edge())
	}
	end := n.Node(start.Next(0))
	if !end.IsAccepting() || end.AcceptString() != "accept1();" {
		t.Fatalf("end = %+v, want accepting accept1();", end)
	}
}

// scenario 2: "a|b" compiles via one branch/join pair.
func TestAlternation(t *testing.T) {
	n := build(t, "a|b  x();", nil)
	start := n.Node(n.Start())
	if start.Edge() != nfa.EdgeEpsilon {
		t.Fatalf("start edge = %v, want epsilon branch", start.Edge())
	}
	left := n.Node(start.Next(0))
	right := n.Node(start.Next(1))
	if left.Edge() != nfa.Edge('a') || right.Edge() != nfa.Edge('b') {
		t.Fatalf("branch targets = %v, %v, want 'a' and 'b'", left.Edge(), right.Edge())
	}
	// Each arm's own end node forwards by epsilon to the shared join.
	joinA := n.Node(n.Node(left.Next(0)).Next(0))
	joinB := n.Node(n.Node(right.Next(0)).Next(0))
	if joinA.Index() != joinB.Index() {
		t.Fatalf("both arms should join at the same node")
	}
	if !joinA.IsAccepting() {
		t.Fatalf("join node should carry the accept string")
	}
}

// scenario 3: "ab*c" — only 'b' loops.
func TestConcatenationAndStarClosure(t *testing.T) {
	n := build(t, "ab*c  y();", nil)
	a := n.Node(n.Start())
	if a.Edge() != nfa.Edge('a') {
		t.Fatalf("first node = %v, want 'a'", a.Edge())
	}
	split := n.Node(a.Next(0))
	if split.Edge() != nfa.EdgeEpsilon {
		t.Fatalf("expected epsilon split after 'a', got %v", split.Edge())
	}
	// One branch enters 'b', the other skips straight to 'c'.
	viaB := n.Node(split.Next(0))
	viaSkip := n.Node(split.Next(1))
	if viaB.Edge() != nfa.Edge('b') {
		viaB, viaSkip = viaSkip, viaB
	}
	if viaB.Edge() != nfa.Edge('b') {
		t.Fatalf("expected a 'b' edge among the split's targets")
	}
	if viaSkip.Edge() != nfa.Edge('c') {
		t.Fatalf("skip edge should land on 'c', got %v", viaSkip.Edge())
	}
	bEnd := n.Node(viaB.Next(0))
	if bEnd.Next(1) != viaB.Index() {
		t.Fatalf("'b' should loop back to its own start for repetition, got %d want %d", bEnd.Next(1), viaB.Index())
	}
	if bEnd.Next(0) != viaSkip.Index() {
		t.Fatalf("'b' should also be able to exit to what follows the closure")
	}
}

// scenario 4: "[a-c]" is one char-class node.
func TestCharClassRange(t *testing.T) {
	n := build(t, "[a-c]  z();", nil)
	start := n.Node(n.Start())
	if start.Edge() != nfa.EdgeCharacterClass {
		t.Fatalf("edge = %v, want char class", start.Edge())
	}
	cc := start.CharClass()
	for _, b := range []byte{'a', 'b', 'c'} {
		if !cc.Matches(b) {
			t.Fatalf("class should match %q", b)
		}
	}
	if cc.Matches('d') {
		t.Fatalf("class should not match 'd'")
	}
}

// scenario 5: "." matches any byte in the 7-bit alphabet except \n and \r.
func TestDotMatchesAnyByte(t *testing.T) {
	n := build(t, ".  w();", nil)
	start := n.Node(n.Start())
	cc := start.CharClass()
	for b := 0; b < 128; b++ {
		want := b != '\n' && b != '\r'
		if cc.Matches(byte(b)) != want {
			t.Fatalf(". match(%d) = %v, want %v", b, cc.Matches(byte(b)), want)
		}
	}
}

// scenario 6: "^ab$" — the accepting node carries both anchors and an
// extra node matching \n or \r follows the body.
func TestAnchors(t *testing.T) {
	n := build(t, "^ab$  v();", nil)
	sentinel := n.Node(n.Start())
	if sentinel.Edge() != nfa.EdgeEpsilon {
		t.Fatalf("^ should prepend an epsilon sentinel, got %v", sentinel.Edge())
	}
	a := n.Node(sentinel.Next(0))
	if a.Edge() != nfa.Edge('a') {
		t.Fatalf("expected 'a' after the sentinel, got %v", a.Edge())
	}
	b := n.Node(a.Next(0))
	if b.Edge() != nfa.Edge('b') {
		t.Fatalf("expected 'b' after 'a', got %v", b.Edge())
	}
	viaB := n.Node(b.Next(0)) // b's own (virgin) end, now an epsilon forward to the $ node
	if viaB.Edge() != nfa.EdgeEpsilon {
		t.Fatalf("expected an epsilon forward after 'b', got %v", viaB.Edge())
	}
	eol := n.Node(viaB.Next(0))
	if eol.Edge() != nfa.EdgeCharacterClass || !eol.CharClass().Matches('\n') || !eol.CharClass().Matches('\r') {
		t.Fatalf("'$' should append a {\\n,\\r} char-class node, got %+v", eol)
	}
	final := n.Node(eol.Next(0))
	if !final.IsAccepting() {
		t.Fatalf("the node after {\\n,\\r} should be the final accepting node")
	}
	if final.Anchor()&nfa.AnchorStart == 0 || final.Anchor()&nfa.AnchorEnd == 0 {
		t.Fatalf("accepting node anchor = %v, want LINE_START|LINE_END", final.Anchor())
	}
}

func TestOptionalClosure(t *testing.T) {
	n := build(t, "ab?c  q();", nil)
	a := n.Node(n.Start())
	split := n.Node(a.Next(0))
	if split.Edge() != nfa.EdgeEpsilon {
		t.Fatalf("expected epsilon split after 'a' for b?, got %v", split.Edge())
	}
}

func TestPlusClosureRequiresOneMatch(t *testing.T) {
	n := build(t, "ab+c  q();", nil)
	a := n.Node(n.Start())
	s := n.Node(a.Next(0))
	if s.Edge() != nfa.EdgeEpsilon {
		t.Fatalf("expected epsilon entry node for b+, got %v", s.Edge())
	}
	if s.Next(1) != nfa.InvalidIndex {
		t.Fatalf("+ entry node must not have a skip edge")
	}
	body := n.Node(s.Next(0))
	if body.Edge() != nfa.Edge('b') {
		t.Fatalf("+ entry should lead into 'b', got %v", body.Edge())
	}
}

func TestEmptyCharClassConvention(t *testing.T) {
	n := build(t, "[]  z();", nil)
	cc := n.Node(n.Start()).CharClass()
	if !cc.Matches(' ') || cc.Matches('!') {
		t.Fatalf("[] should match every byte <= space and nothing above it")
	}
}

func TestInvertedCharClassExcludesNewlines(t *testing.T) {
	n := build(t, "[^a]  z();", nil)
	cc := n.Node(n.Start()).CharClass()
	if cc.Matches('a') {
		t.Fatalf("[^a] should not match 'a'")
	}
	if cc.Matches('\n') || cc.Matches('\r') {
		t.Fatalf("[^a] should still exclude \\n and \\r by convention")
	}
	if !cc.Matches('b') {
		t.Fatalf("[^a] should match 'b'")
	}
}

func TestReversedRangeIsAnError(t *testing.T) {
	_, _, err := CompileOne("[z-a]", nil, nil)
	requireSyntaxError(t, err, ReversedRange)
}

func TestMissingCloseParen(t *testing.T) {
	_, _, err := CompileOne("(ab", nil, nil)
	requireSyntaxError(t, err, MissingCloseParen)
}

func TestStrayClosure(t *testing.T) {
	_, _, err := CompileOne("*ab", nil, nil)
	requireSyntaxError(t, err, StrayClosure)
}

func TestStrayCloseBracket(t *testing.T) {
	_, _, err := CompileOne("a]b", nil, nil)
	requireSyntaxError(t, err, StrayCloseBracket)
}

func TestMisplacedCarat(t *testing.T) {
	_, _, err := CompileOne("a^b", nil, nil)
	requireSyntaxError(t, err, MisplacedCarat)
}

func TestEmptyAlternationBranch(t *testing.T) {
	// "a||b" — the middle branch matches the empty string.
	n := build(t, "a||b  x();", nil)
	start := n.Node(n.Start())
	if start.Edge() != nfa.EdgeEpsilon {
		t.Fatalf("expected a branch node at top level")
	}
}

func TestGroupingDoesNotAddNodes(t *testing.T) {
	// "(a)" should compile identically to "a": grouping is a pure
	// pass-through, per spec.md §4.2.
	direct := build(t, "a  x();", nil)
	grouped := build(t, "(a)  x();", nil)
	if direct.Len() != grouped.Len() {
		t.Fatalf("grouping should not add nodes: direct=%d grouped=%d", direct.Len(), grouped.Len())
	}
}

func TestMacroExpansionInPattern(t *testing.T) {
	macros := lexer.MacroTable{"DIGIT": "[0-9]"}
	n := build(t, "{DIGIT}+  num();", macros)
	s := n.Node(n.Start())
	if s.Next(1) != nfa.InvalidIndex {
		t.Fatalf("+ entry node must not have a skip edge")
	}
	body := n.Node(s.Next(0))
	if body.Edge() != nfa.EdgeCharacterClass || !body.CharClass().Matches('5') {
		t.Fatalf("expected the {DIGIT} macro to expand to a digit char class")
	}
}

func TestCompileRulesPreservesDeclarationOrderPriority(t *testing.T) {
	rules := []Rule{
		{Name: "KEYWORD", Pattern: "if  kw();"},
		{Name: "IDENT", Pattern: "[a-z]+  ident();"},
	}
	n, err := CompileRules(rules, nil, nil)
	if err != nil {
		t.Fatalf("CompileRules: %v", err)
	}
	// The first rule's accept node, allocated before any join node, must
	// have a lower arena index than the second rule's.
	var firstAccept, secondAccept nfa.Index = nfa.InvalidIndex, nfa.InvalidIndex
	for i := 0; i < n.Len(); i++ {
		node := n.Node(nfa.Index(i))
		if node == nil || !node.IsAccepting() {
			continue
		}
		switch node.AcceptString() {
		case "kw();":
			firstAccept = node.Index()
		case "ident();":
			secondAccept = node.Index()
		}
	}
	if firstAccept == nfa.InvalidIndex || secondAccept == nfa.InvalidIndex {
		t.Fatalf("expected both rules' accept nodes to survive into the combined NFA")
	}
	if firstAccept >= secondAccept {
		t.Fatalf("declaration order should give the first rule the lower index: %d >= %d", firstAccept, secondAccept)
	}
}
