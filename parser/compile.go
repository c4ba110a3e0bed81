package parser

import (
	"fmt"

	"github.com/coregx/lexgen/lexer"
	"github.com/coregx/lexgen/nfa"
)

// CompileOne parses a single rule into a fresh arena and returns its
// Thompson fragment alongside the Builder that owns it, so the caller
// can call Build once it knows the overall start index.
func CompileOne(src string, macros lexer.MacroTable, logger Logger) (*nfa.Builder, Fragment, error) {
	b := nfa.NewBuilder()
	p, err := New(src, macros, b, logger)
	if err != nil {
		return nil, Fragment{}, err
	}
	frag, err := p.ParseRule()
	if err != nil {
		return nil, Fragment{}, err
	}
	return b, frag, nil
}

// CompileRules parses every rule into one shared arena and folds the
// resulting fragments together with the same binary Alternation
// construction '|' uses (grounded on the multi-rule combination pattern
// read from other_examples/liran-funaro-nex's nfaBuilder.build, which
// folds named rules into one root NFA the same way). Rules are parsed in
// order, so each rule's own accept node is allocated strictly before the
// join node combining it with whatever follows — preserving "lowest NFA
// index wins" as "first declared rule wins" for the DFA's accept-
// priority tie-break (spec.md §4.3, §8).
func CompileRules(rules []Rule, macros lexer.MacroTable, logger Logger) (*nfa.NFA, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("parser: CompileRules requires at least one rule")
	}

	b := nfa.NewBuilder()
	var combined Fragment
	for i, r := range rules {
		p, err := New(r.Pattern, macros, b, logger)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		frag, err := p.ParseRule()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		if i == 0 {
			combined = frag
		} else {
			combined = joinFragments(b, combined, frag)
		}
	}
	return b.Build(combined.Start)
}
