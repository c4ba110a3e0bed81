package nfa

import (
	"fmt"

	"github.com/coregx/lexgen/internal/conv"
)

// Builder owns the node arena and free list during one compilation and
// exposes the low-level construction primitives the parser's Thompson
// fragment algebra is built from: allocate, patch, splice, discard.
//
// This mirrors the teacher's nfa.Builder, which plays the same role for
// its Compiler ("Builder constructs NFAs incrementally using a low-level
// API... used by the Compiler"). Here the grammar-driven caller lives in
// a separate package (parser) rather than nfa itself, since this core's
// C2 (recursive-descent grammar, macro-aware lexing) is substantially
// larger than the teacher's (which walks an already-parsed
// regexp/syntax.Regexp tree) — see DESIGN.md.
type Builder struct {
	nodes     []Node
	discarded []Index // free list of discarded arena slots, LIFO
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Len reports the number of allocated arena slots (including any
// currently on the free list).
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Allocate reserves a fresh EdgeEmpty node, reusing a discarded slot if
// one is available, and returns its index. This is AllocateNfaNode from
// the original source, generalized: discardedNodes.length > 0 pops the
// free list, otherwise a new slot is appended.
func (b *Builder) Allocate() Index {
	if len(b.discarded) > 0 {
		idx := b.discarded[len(b.discarded)-1]
		b.discarded = b.discarded[:len(b.discarded)-1]
		b.nodes[idx] = Node{edge: EdgeEmpty, index: idx, next: [2]Index{InvalidIndex, InvalidIndex}}
		return idx
	}
	idx := Index(conv.IntToUint32(len(b.nodes)))
	b.nodes = append(b.nodes, Node{edge: EdgeEmpty, index: idx, next: [2]Index{InvalidIndex, InvalidIndex}})
	return idx
}

// Discard returns a node's slot to the free list, resetting its contents
// to EdgeEmpty. Used by the parser's concatenation splice, which must
// discard the second fragment's start node once its contents have been
// copied onto the first fragment's end node (spec.md §4.2).
func (b *Builder) Discard(idx Index) {
	b.nodes[idx] = Node{edge: EdgeEmpty, index: idx, next: [2]Index{InvalidIndex, InvalidIndex}}
	b.discarded = append(b.discarded, idx)
}

// SetEpsilon configures idx as an epsilon node with up to two out-edges.
// Pass InvalidIndex for next1 when the node has a single successor
// (plain sequencing) rather than two (alternation/closure branching).
func (b *Builder) SetEpsilon(idx, next0, next1 Index) {
	n := &b.nodes[idx]
	n.edge = EdgeEpsilon
	n.next = [2]Index{next0, next1}
}

// SetLiteral configures idx as a literal-byte node matching exactly lit,
// transitioning to next on match.
func (b *Builder) SetLiteral(idx Index, lit byte, next Index) {
	n := &b.nodes[idx]
	n.edge = Edge(lit)
	n.next = [2]Index{next, InvalidIndex}
}

// SetCharClass configures idx as a character-class node.
func (b *Builder) SetCharClass(idx Index, cc *CharClass, next Index) {
	n := &b.nodes[idx]
	n.edge = EdgeCharacterClass
	n.charClass = cc
	n.next = [2]Index{next, InvalidIndex}
}

// PatchSecond rewrites an already-epsilon node's secondary (next[1])
// successor without disturbing next[0]. Used for the closure repeat edge
// ("A.end.next[1] = A.start" for * and +), the second half of a
// SetEpsilon that was deliberately built up in two steps.
func (b *Builder) PatchSecond(idx, next Index) {
	b.nodes[idx].next[1] = next
}

// Splice implements spec.md §4.2's concatenation join: A's end node (at)
// is overwritten in place with B's start node's contents (from), and
// from's slot is discarded. A's end-node identity (its arena index) is
// preserved, which is what lets any other node already pointing at A's
// end automatically pick up B's behavior without a rewrite.
func (b *Builder) Splice(at, from Index) {
	content := b.nodes[from]
	content.index = at
	b.nodes[at] = content
	b.Discard(from)
}

// SetAcceptString attaches action text to idx, canonically a fragment's
// terminal node.
func (b *Builder) SetAcceptString(idx Index, s string) {
	b.nodes[idx].acceptString = s
}

// AddAnchor ORs anchor bits onto idx's existing anchor set.
func (b *Builder) AddAnchor(idx Index, a Anchor) {
	b.nodes[idx].anchor |= a
}

// Build finalizes the arena into an immutable NFA rooted at start.
//
// Slots left EdgeEmpty by Discard (and never reused) remain in the
// returned arena as unreachable dead space, exactly as the original
// source leaves them on its free list — nothing reachable from start
// via Next pointers ever references them, so ε-closure and move never
// visit them.
func (b *Builder) Build(start Index) (*NFA, error) {
	if int(start) >= len(b.nodes) {
		return nil, &BuildError{Message: "start index out of bounds", Index: start}
	}
	return &NFA{nodes: b.nodes, start: start}, nil
}

// BuildError reports a problem in the low-level Builder API.
type BuildError struct {
	Message string
	Index   Index
}

func (e *BuildError) Error() string {
	if e.Index != InvalidIndex {
		return fmt.Sprintf("nfa: build error at node %d: %s", e.Index, e.Message)
	}
	return fmt.Sprintf("nfa: build error: %s", e.Message)
}
