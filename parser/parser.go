// Package parser implements the recursive-descent grammar and Thompson
// fragment algebra described in spec.md §4.2 (component C2): it drives a
// lexer.Scanner token-by-token and calls nfa.Builder's low-level
// primitives to grow an NFA arena one rule at a time.
//
// This diverges from the teacher's package layout, where Builder and the
// grammar-walking Compiler both live in package nfa: here the
// grammar-driven half is substantially larger (a custom macro-aware
// lexer and a hand-written LL(1) parser, rather than walking an
// already-parsed regexp/syntax.Regexp tree), so it gets its own package.
// See DESIGN.md.
package parser

import (
	"github.com/coregx/lexgen/lexer"
	"github.com/coregx/lexgen/nfa"
)

// Logger receives non-fatal diagnostics encountered while parsing, such
// as the "[]" empty-character-class convention (spec.md §4.2). A nil
// Logger is valid and simply discards them.
type Logger interface {
	Warnf(format string, args ...any)
}

// Rule is one named pattern to compile, mirroring a single lex rule line:
// Pattern is scanned by lexer.Scanner in full, including any trailing
// whitespace-delimited action text recovered via Scanner.Remainder.
type Rule struct {
	Name    string
	Pattern string
}

// Parser walks one rule's token stream and builds its Thompson fragment
// into a shared Builder, so multiple rules can be combined into one NFA
// by CompileRules without copying arenas.
type Parser struct {
	builder *nfa.Builder
	scanner *lexer.Scanner
	cur     lexer.Token
	logger  Logger
}

// New returns a Parser over src, sharing builder with any other rules
// already (or later) parsed into the same arena.
func New(src string, macros lexer.MacroTable, builder *nfa.Builder, logger Logger) (*Parser, error) {
	p := &Parser{
		builder: builder,
		scanner: lexer.New(src, macros, lexer.DefaultConfig()),
		logger:  logger,
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.scanner.Advance()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) syntaxError(kind ErrorKind) *SyntaxError {
	return &SyntaxError{Kind: kind, Source: p.scanner.Source(), Offset: p.scanner.Pos()}
}

func (p *Parser) warnf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Warnf(format, args...)
	}
}

// ParseRule parses one full rule (regex, optional anchors, trailing
// action text) and returns its Thompson fragment with the action text
// and any anchors already attached to the fragment's end node.
//
// regex := [ '^' ] expression [ '$' ] <trailing-action>
func (p *Parser) ParseRule() (Fragment, error) {
	var anchor nfa.Anchor
	anchored := p.cur.Kind == lexer.CARAT
	if anchored {
		anchor |= nfa.AnchorStart
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
	}

	frag, err := p.parseExpression()
	if err != nil {
		return Fragment{}, err
	}

	if p.cur.Kind == lexer.DOLLAR {
		anchor |= nfa.AnchorEnd
		eol := nfa.NewCharClass()
		eol.Add('\n')
		eol.Add('\r')
		eolNode := p.builder.Allocate()
		newEnd := p.builder.Allocate()
		p.builder.SetCharClass(eolNode, eol, newEnd)
		p.builder.SetEpsilon(frag.End, eolNode, nfa.InvalidIndex)
		frag.End = newEnd
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
	}

	if anchored {
		sentinel := p.builder.Allocate()
		p.builder.SetEpsilon(sentinel, frag.Start, nfa.InvalidIndex)
		frag.Start = sentinel
	}

	if anchor != nfa.AnchorNone {
		p.builder.AddAnchor(frag.End, anchor)
	}

	// Trailing action: whatever raw text remains after the grammar is
	// done (past any '$'), whitespace-trimmed. Pulled straight from the
	// scanner's cursor rather than re-tokenized, since action text is
	// host-language source, not more regex grammar (spec.md §4.2).
	action := p.scanner.Remainder()
	if action != "" {
		p.builder.SetAcceptString(frag.End, action)
	}
	return frag, nil
}

// expression := concatenation ( '|' concatenation )*
func (p *Parser) parseExpression() (Fragment, error) {
	left, err := p.parseConcatenation()
	if err != nil {
		return Fragment{}, err
	}
	for p.cur.Kind == lexer.PIPE {
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		right, err := p.parseConcatenation()
		if err != nil {
			return Fragment{}, err
		}
		left = p.alternate(left, right)
	}
	return left, nil
}

// alternate builds spec.md §4.2's Alternation: a new branch node splitting
// into both operands, and a new join node both operands' dangling ends
// are wired to. Shared via joinFragments so CompileRules can fold
// multiple rules together the same way '|' folds two branches.
func (p *Parser) alternate(a, b Fragment) Fragment {
	return joinFragments(p.builder, a, b)
}

func joinFragments(b *nfa.Builder, a, c Fragment) Fragment {
	branch := b.Allocate()
	join := b.Allocate()
	b.SetEpsilon(branch, a.Start, c.Start)
	b.SetEpsilon(a.End, join, nfa.InvalidIndex)
	b.SetEpsilon(c.End, join, nfa.InvalidIndex)
	return Fragment{Start: branch, End: join}
}

// concatenation := factor+ | ε
//
// Tokens that can never legitimately appear at a factor boundary (a
// closure symbol with nothing preceding it, a stray ']', a '^' anywhere
// but position 0) are fatal here rather than silently ending the
// concatenation, since a legitimate occurrence of any of them is always
// consumed elsewhere first (by the preceding factor, by '[' ... ']'
// charclass parsing, or by ParseRule's leading-anchor check).
func (p *Parser) parseConcatenation() (Fragment, error) {
	var frag Fragment
	has := false
	for {
		switch p.cur.Kind {
		case lexer.LITERAL, lexer.DOT, lexer.LeftBracket, lexer.LeftParen:
			f, err := p.parseFactor()
			if err != nil {
				return Fragment{}, err
			}
			if !has {
				frag = f
				has = true
			} else {
				p.builder.Splice(frag.End, f.Start)
				frag.End = f.End
			}
		case lexer.STAR, lexer.PLUS, lexer.QUESTION:
			return Fragment{}, p.syntaxError(StrayClosure)
		case lexer.RightBracket:
			return Fragment{}, p.syntaxError(StrayCloseBracket)
		case lexer.CARAT:
			return Fragment{}, p.syntaxError(MisplacedCarat)
		default:
			// PIPE, RightParen, DOLLAR, EOS: end of this concatenation.
			if !has {
				return p.epsilonFragment(), nil
			}
			return frag, nil
		}
	}
}

// epsilonFragment builds the empty-match fragment for an empty
// concatenation, e.g. the middle branch of "a||b".
func (p *Parser) epsilonFragment() Fragment {
	s := p.builder.Allocate()
	e := p.builder.Allocate()
	p.builder.SetEpsilon(s, e, nfa.InvalidIndex)
	return Fragment{Start: s, End: e}
}

// factor := term ( '*' | '+' | '?' )?
func (p *Parser) parseFactor() (Fragment, error) {
	term, err := p.parseTerm()
	if err != nil {
		return Fragment{}, err
	}
	switch p.cur.Kind {
	case lexer.STAR:
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		return p.closureStar(term), nil
	case lexer.PLUS:
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		return p.closurePlus(term), nil
	case lexer.QUESTION:
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		return p.closureQuestion(term), nil
	default:
		return term, nil
	}
}

// closureStar builds spec.md §4.2's * closure: a new entry s that can
// either step into the body or skip straight to the new exit e, and the
// body's own (virgin) end node reconfigured into an epsilon split that
// either exits to e or loops back into the body.
func (p *Parser) closureStar(a Fragment) Fragment {
	s := p.builder.Allocate()
	e := p.builder.Allocate()
	p.builder.SetEpsilon(s, a.Start, e)
	p.builder.SetEpsilon(a.End, e, nfa.InvalidIndex)
	p.builder.PatchSecond(a.End, a.Start)
	return Fragment{Start: s, End: e}
}

// closurePlus is * without the initial skip edge: the body must run at
// least once.
func (p *Parser) closurePlus(a Fragment) Fragment {
	s := p.builder.Allocate()
	e := p.builder.Allocate()
	p.builder.SetEpsilon(s, a.Start, nfa.InvalidIndex)
	p.builder.SetEpsilon(a.End, e, nfa.InvalidIndex)
	p.builder.PatchSecond(a.End, a.Start)
	return Fragment{Start: s, End: e}
}

// closureQuestion is * without the repeat edge: the body runs at most
// once.
func (p *Parser) closureQuestion(a Fragment) Fragment {
	s := p.builder.Allocate()
	e := p.builder.Allocate()
	p.builder.SetEpsilon(s, a.Start, e)
	p.builder.SetEpsilon(a.End, e, nfa.InvalidIndex)
	return Fragment{Start: s, End: e}
}

// term := '(' expression ')' | '.' | '[' [ '^' ] charclass ']' | LITERAL
//
// Only reachable with cur already one of these four kinds: the
// concatenation loop above is the sole caller and only invokes
// parseFactor (hence parseTerm) once it has confirmed cur can start a
// term.
func (p *Parser) parseTerm() (Fragment, error) {
	switch p.cur.Kind {
	case lexer.LeftParen:
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		frag, err := p.parseExpression()
		if err != nil {
			return Fragment{}, err
		}
		if p.cur.Kind != lexer.RightParen {
			return Fragment{}, p.syntaxError(MissingCloseParen)
		}
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		return frag, nil

	case lexer.DOT:
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		// "." is {\n,\r} inverted, not every byte: it must still exclude
		// line-enders (spec.md §4.2).
		cc := nfa.NewCharClass()
		cc.Add('\n')
		cc.Add('\r')
		cc.Inverted = true
		return p.charClassTerm(cc), nil

	case lexer.LeftBracket:
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		cc, err := p.parseCharClass()
		if err != nil {
			return Fragment{}, err
		}
		if p.cur.Kind != lexer.RightBracket {
			return Fragment{}, p.syntaxError(MissingCloseBracket)
		}
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		return p.charClassTerm(cc), nil

	default: // lexer.LITERAL
		lit := p.cur.Lexeme
		if err := p.advance(); err != nil {
			return Fragment{}, err
		}
		return p.literalTerm(lit), nil
	}
}

func (p *Parser) literalTerm(lit byte) Fragment {
	s := p.builder.Allocate()
	e := p.builder.Allocate()
	p.builder.SetLiteral(s, lit, e)
	return Fragment{Start: s, End: e}
}

func (p *Parser) charClassTerm(cc *nfa.CharClass) Fragment {
	s := p.builder.Allocate()
	e := p.builder.Allocate()
	p.builder.SetCharClass(s, cc, e)
	return Fragment{Start: s, End: e}
}

// parseCharClass parses a class body up to (not including) the
// terminating ']', already having consumed the opening '['.
//
// charclass := [ '^' ] classItem*
// classItem := byte [ '-' byte ]
func (p *Parser) parseCharClass() (*nfa.CharClass, error) {
	cc := nfa.NewCharClass()
	inverted := false
	if p.cur.Kind == lexer.CARAT {
		inverted = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	n := 0
	for p.cur.Kind != lexer.RightBracket {
		if p.cur.Kind == lexer.EOS {
			return nil, p.syntaxError(MissingCloseBracket)
		}
		lo, err := p.classByte()
		if err != nil {
			return nil, err
		}
		n++
		if p.cur.Kind == lexer.DASH {
			if err := p.advance(); err != nil {
				return nil, err
			}
			hi, err := p.classByte()
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, p.syntaxError(ReversedRange)
			}
			cc.AddRange(lo, hi)
		} else {
			cc.Add(lo)
		}
	}

	if n == 0 {
		// "[]": the source's empty-class convention, preserved as "every
		// byte <= space" rather than treated as an error (SPEC_FULL.md §12).
		p.warnf("empty character class '[]' matches every byte <= 0x20")
		cc.AddRange(0, ' ')
	}

	if inverted {
		// Pre-insert \n and \r before inverting, so a negated class still
		// excludes line-ending bytes by default — the conventional lex
		// reading of "^" inside brackets.
		cc.Add('\n')
		cc.Add('\r')
		cc.Inverted = true
	}
	return cc, nil
}

// classByte reads one literal byte inside a character class. Bytes that
// the scanner reports as metacharacter kinds (it has no bracket-context
// awareness) are still literal here except '-', ']', and a
// class-initial '^', all handled by the caller.
func (p *Parser) classByte() (byte, error) {
	b, ok := classLiteralByte(p.cur)
	if !ok {
		return 0, p.syntaxError(MissingCloseBracket)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	return b, nil
}

func classLiteralByte(tok lexer.Token) (byte, bool) {
	if tok.Kind == lexer.LITERAL {
		return tok.Lexeme, true
	}
	switch tok.Kind {
	case lexer.LeftBrace:
		return '{', true
	case lexer.RightBrace:
		return '}', true
	case lexer.LeftParen:
		return '(', true
	case lexer.RightParen:
		return ')', true
	case lexer.LeftBracket:
		return '[', true
	case lexer.DOT:
		return '.', true
	case lexer.PIPE:
		return '|', true
	case lexer.DOLLAR:
		return '$', true
	case lexer.STAR:
		return '*', true
	case lexer.PLUS:
		return '+', true
	case lexer.QUESTION:
		return '?', true
	case lexer.CARAT:
		return '^', true
	default: // DASH, RightBracket, EOS: not a literal in this position
		return 0, false
	}
}
