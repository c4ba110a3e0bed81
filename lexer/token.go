// Package lexer tokenizes regex source text: metacharacters, escapes,
// quoted spans, and macro expansion (spec.md §4.1, component C1).
package lexer

import "fmt"

// Kind tags a Token's variant.
type Kind int

const (
	EOS Kind = iota
	LITERAL
	PLUS
	STAR
	QUESTION
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	DASH
	DOT
	PIPE
	CARAT
	DOLLAR
	LeftParen
	RightParen
)

func (k Kind) String() string {
	switch k {
	case EOS:
		return "EOS"
	case LITERAL:
		return "LITERAL"
	case PLUS:
		return "PLUS"
	case STAR:
		return "STAR"
	case QUESTION:
		return "QUESTION"
	case LeftBrace:
		return "LEFT_BRACE"
	case RightBrace:
		return "RIGHT_BRACE"
	case LeftBracket:
		return "LEFT_BRACKET"
	case RightBracket:
		return "RIGHT_BRACKET"
	case DASH:
		return "DASH"
	case DOT:
		return "DOT"
	case PIPE:
		return "PIPE"
	case CARAT:
		return "CARAT"
	case DOLLAR:
		return "DOLLAR"
	case LeftParen:
		return "LEFT_PAREN"
	case RightParen:
		return "RIGHT_PAREN"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one lexical unit. Lexeme and Escaped are only meaningful when
// Kind == LITERAL: Lexeme is the resolved byte value, and Escaped records
// whether it came from a quoted span or a backslash escape — such
// literals bypass metacharacter interpretation even when Lexeme happens
// to equal a metacharacter byte like '*' or '('.
type Token struct {
	Kind    Kind
	Lexeme  byte
	Escaped bool
}

func (t Token) String() string {
	if t.Kind == LITERAL {
		return fmt.Sprintf("LITERAL(%q)", t.Lexeme)
	}
	return t.Kind.String()
}

// metacharKind is the compile-time char->token map spec.md §5 calls for
// ("compute it as a constant table rather than a lazily-initialized
// shared hash"), avoiding the source's process-wide lazily built table
// and its implicit first-use race in a multi-threaded host.
var metacharKind [256]Kind

func init() {
	for i := range metacharKind {
		metacharKind[i] = -1 // sentinel: "not a metacharacter"
	}
	metacharKind['{'] = LeftBrace
	metacharKind['}'] = RightBrace
	metacharKind['('] = LeftParen
	metacharKind[')'] = RightParen
	metacharKind['['] = LeftBracket
	metacharKind[']'] = RightBracket
	metacharKind['|'] = PIPE
	metacharKind['.'] = DOT
	metacharKind['$'] = DOLLAR
	metacharKind['^'] = CARAT
	metacharKind['*'] = STAR
	metacharKind['+'] = PLUS
	metacharKind['?'] = QUESTION
	metacharKind['-'] = DASH
}

// lookupMetachar returns the token kind for an unescaped, unquoted byte,
// and false if b is not one of the regex metacharacters.
func lookupMetachar(b byte) (Kind, bool) {
	k := metacharKind[b]
	if k == -1 {
		return 0, false
	}
	return k, true
}
