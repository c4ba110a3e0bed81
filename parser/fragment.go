package parser

import "github.com/coregx/lexgen/nfa"

// Fragment is a dangling piece of NFA under construction: Start is its
// entry node, End is a node guaranteed not yet configured with a real
// edge (spec.md §4.2's Thompson fragment algebra). Every construction
// function below returns a fresh, virgin End — ready for whatever comes
// next to turn into an epsilon join (SetEpsilon), splice over
// (concatenation), or leave untouched as a terminal accept node.
type Fragment struct {
	Start nfa.Index
	End   nfa.Index
}
