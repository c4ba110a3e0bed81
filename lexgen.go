// Package lexgen compiles a set of named regex rules into a
// deterministic finite automaton: a recursive-descent parser
// (package parser) builds a Thompson-construction NFA (package nfa),
// which subset construction (package dfa) turns into a dense,
// byte-indexed DFA ready for a host lexer to drive.
package lexgen

import (
	"fmt"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/diag"
	"github.com/coregx/lexgen/lexer"
	"github.com/coregx/lexgen/parser"
)

// Rule is one named pattern plus its action text, e.g. a single line of
// a .lex rules file.
type Rule = parser.Rule

// Result is a successfully compiled rule set.
type Result struct {
	DFA *dfa.DFA
}

// Option configures Compile.
type Option func(*options)

type options struct {
	macros  lexer.MacroTable
	verbose bool
}

// WithMacros supplies a macro table (spec.md §3) for {NAME} expansion
// within rule patterns.
func WithMacros(macros lexer.MacroTable) Option {
	return func(o *options) { o.macros = macros }
}

// WithVerboseLogging raises diag's log level for the duration of this
// compilation, surfacing things like the "[]" empty-class convention.
func WithVerboseLogging() Option {
	return func(o *options) { o.verbose = true }
}

// Compile parses every rule, builds their combined Thompson NFA, and
// runs subset construction over it, in one pass (components C1-C5).
// Rules are tried in declaration order: when two rules' patterns both
// match the same input, the earlier-declared rule's action wins
// (spec.md §8's accept-priority property).
func Compile(rules []Rule, opts ...Option) (*Result, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("lexgen: at least one rule is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.verbose {
		diag.SetVerbose(true)
		defer diag.SetVerbose(false)
	}

	n, err := parser.CompileRules(rules, o.macros, diag.Logger{})
	if err != nil {
		return nil, fmt.Errorf("lexgen: %w", err)
	}
	diag.Debugf("compiled %d rules into an NFA of %d nodes", len(rules), n.Len())

	d, err := dfa.Construct(n)
	if err != nil {
		return nil, fmt.Errorf("lexgen: %w", err)
	}
	diag.Infof("subset construction produced %d DFA states", d.Len())

	return &Result{DFA: d}, nil
}
