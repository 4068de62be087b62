package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/lumenlang/lumen/errors"
)

// LiteralKind tags a Literal's variant.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralLong
	LiteralFloat
	LiteralDouble
	LiteralChar
	LiteralBoolean
	LiteralString
	LiteralNull
)

// Literal is a parsed constant value.
type Literal struct {
	Kind    LiteralKind
	Int     int64
	Float   float64
	Char    byte
	Bool    bool
	Str     string
}

// ReturnType resolves the built-in Type a literal's variant produces.
func (l *Literal) ReturnType() *Type {
	switch l.Kind {
	case LiteralInt:
		return &Type{Kind: KindInt}
	case LiteralLong:
		return &Type{Kind: KindLong}
	case LiteralFloat:
		return &Type{Kind: KindFloat}
	case LiteralDouble:
		return &Type{Kind: KindDouble}
	case LiteralChar:
		return &Type{Kind: KindChar}
	case LiteralBoolean:
		return &Type{Kind: KindBoolean}
	case LiteralString:
		return &Type{Kind: KindString}
	default:
		return &Type{Kind: KindVoid}
	}
}

// ParseLiteral decodes a lexeme produced by the lexer's literal token into
// a Literal, per spec.md §3: true/false -> boolean, single/double-quoted
// text is passed through pre-decoded by the lexer as char/string, and a
// digit lexeme is read by trailing suffix (L, F, D, B, O, H) with a bare
// dotted lexeme defaulting to double and a dotted lexeme with an
// integer-only suffix failing.
func ParseLiteral(lexeme string, line int) *Literal {
	switch lexeme {
	case "true":
		return &Literal{Kind: LiteralBoolean, Bool: true}
	case "false":
		return &Literal{Kind: LiteralBoolean, Bool: false}
	}

	if !isNumericLexeme(lexeme) {
		if len(lexeme) == 1 {
			return &Literal{Kind: LiteralChar, Char: lexeme[0]}
		}
		return &Literal{Kind: LiteralString, Str: lexeme}
	}
	return parseNumericLiteral(lexeme, line)
}

func isNumericLexeme(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c >= '0' && c <= '9'
}

var suffixKind = map[byte]LiteralKind{
	'L': LiteralLong,
	'F': LiteralFloat,
	'D': LiteralDouble,
}

func parseNumericLiteral(lexeme string, line int) *Literal {
	body := lexeme
	var suffix byte
	if n := len(lexeme); n > 0 {
		last := lexeme[n-1]
		if last == 'L' || last == 'F' || last == 'D' || last == 'B' || last == 'O' || last == 'H' {
			suffix = last
			body = lexeme[:n-1]
		}
	}
	hasDot := strings.Contains(body, ".")

	switch suffix {
	case 'B':
		if hasDot {
			f, ferr := strconv.ParseFloat(body, 64)
			if ferr != nil {
				panic(errors.New(errors.SyntaxError, "invalid literal", line, lexeme))
			}
			return &Literal{Kind: LiteralLong, Int: int64(math.Float64bits(f)), Float: f}
		}
		v, err := strconv.ParseInt(body, 2, 64)
		if err != nil {
			panic(errors.New(errors.SyntaxError, "invalid binary literal", line, lexeme))
		}
		return &Literal{Kind: LiteralInt, Int: v}
	case 'O':
		if hasDot {
			panic(errors.New(errors.SyntaxError, "dotted lexeme cannot carry an integer suffix", line, lexeme))
		}
		v, err := strconv.ParseInt(body, 8, 64)
		if err != nil {
			panic(errors.New(errors.SyntaxError, "invalid octal literal", line, lexeme))
		}
		return &Literal{Kind: LiteralInt, Int: v}
	case 'H':
		if hasDot {
			panic(errors.New(errors.SyntaxError, "dotted lexeme cannot carry an integer suffix", line, lexeme))
		}
		v, err := strconv.ParseInt(body, 16, 64)
		if err != nil {
			panic(errors.New(errors.SyntaxError, "invalid hex literal", line, lexeme))
		}
		return &Literal{Kind: LiteralInt, Int: v}
	case 'L':
		if hasDot {
			panic(errors.New(errors.SyntaxError, "dotted lexeme cannot carry an integer suffix", line, lexeme))
		}
		v, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			panic(errors.New(errors.SyntaxError, "invalid long literal", line, lexeme))
		}
		return &Literal{Kind: LiteralLong, Int: v}
	case 'F':
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			panic(errors.New(errors.SyntaxError, "invalid float literal", line, lexeme))
		}
		return &Literal{Kind: LiteralFloat, Float: f}
	case 'D':
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			panic(errors.New(errors.SyntaxError, "invalid double literal", line, lexeme))
		}
		return &Literal{Kind: LiteralDouble, Float: f}
	default:
		if hasDot {
			f, err := strconv.ParseFloat(body, 64)
			if err != nil {
				panic(errors.New(errors.SyntaxError, "invalid literal", line, lexeme))
			}
			return &Literal{Kind: LiteralDouble, Float: f}
		}
		v, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			panic(errors.New(errors.SyntaxError, "invalid literal", line, lexeme))
		}
		return &Literal{Kind: LiteralInt, Int: v}
	}
}
