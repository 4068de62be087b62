// Package lexer converts lumen source text into a flat token stream and
// performs no further analysis. See Lex and Token.
package lexer

// SourceExt is the single configured source file extension (spec.md §6).
const SourceExt = ".lum"

// Kind tags a Token's syntactic category.
type Kind int

const (
	// Sentinel.
	KindNull Kind = iota // end of input

	// Punctuation.
	KindOpenParen
	KindCloseParen
	KindOpenCurly
	KindCloseCurly
	KindOpenAngle
	KindCloseAngle
	KindOpenSquare
	KindCloseSquare
	KindSemicolon
	KindColon
	KindDColon
	KindDot
	KindComma
	KindPipe
	KindArrow
	KindAt
	KindPublicClosure // $
	KindPreprocessor  // #

	// Generic categories.
	KindLiteral
	KindSymbols
	KindIdentifier

	// Reserved words.
	KindVar
	KindInt
	KindUint
	KindFloat
	KindLong
	KindUlong
	KindDouble
	KindChar
	KindByte
	KindBoolean
	KindString
	KindVoid
	KindMutable
	KindStruct
	KindUnion
	KindInterface
	KindAs
	KindReturn
	KindAsm
	KindType
	KindIf
	KindElse
	KindWhile
	KindDo
	KindFor
	KindNamespace
	KindDefer
	KindFunc
	KindInline
	KindPublic
	KindImport
	KindBelow
	KindAbove
	KindAll
	KindNone
	KindOperation
	KindCast
	KindAutocast

	// Preprocessor keywords.
	KindDefine
	KindIfdef
	KindIfndef
	KindEndif
	KindUndef
	KindKeyword
	KindMacro
	KindTemplate
	KindLogi
	KindLogw
	KindLoge
)

var kindNames = map[Kind]string{
	KindNull: "null",

	KindOpenParen:     "(",
	KindCloseParen:    ")",
	KindOpenCurly:     "{",
	KindCloseCurly:    "}",
	KindOpenAngle:     "<",
	KindCloseAngle:    ">",
	KindOpenSquare:    "[",
	KindCloseSquare:   "]",
	KindSemicolon:     ";",
	KindColon:         ":",
	KindDColon:        "::",
	KindDot:           ".",
	KindComma:         ",",
	KindPipe:          "|",
	KindArrow:         "->",
	KindAt:            "@",
	KindPublicClosure: "$",
	KindPreprocessor:  "#",

	KindLiteral:    "literal",
	KindSymbols:    "symbols",
	KindIdentifier: "identifier",

	KindVar:       "var",
	KindInt:       "int",
	KindUint:      "uint",
	KindFloat:     "float",
	KindLong:      "long",
	KindUlong:     "ulong",
	KindDouble:    "double",
	KindChar:      "char",
	KindByte:      "byte",
	KindBoolean:   "boolean",
	KindString:    "string",
	KindVoid:      "void",
	KindMutable:   "mutable",
	KindStruct:    "struct",
	KindUnion:     "union",
	KindInterface: "interface",
	KindAs:        "as",
	KindReturn:    "return",
	KindAsm:       "asm",
	KindType:      "type",
	KindIf:        "if",
	KindElse:      "else",
	KindWhile:     "while",
	KindDo:        "do",
	KindFor:       "for",
	KindNamespace: "namespace",
	KindDefer:     "defer",
	KindFunc:      "func",
	KindInline:    "inline",
	KindPublic:    "public",
	KindImport:    "import",
	KindBelow:     "below",
	KindAbove:     "above",
	KindAll:       "all",
	KindNone:      "none",
	KindOperation: "operation",
	KindCast:      "cast",
	KindAutocast:  "autocast",

	KindDefine:   "define",
	KindIfdef:    "ifdef",
	KindIfndef:   "ifndef",
	KindEndif:    "endif",
	KindUndef:    "undef",
	KindKeyword:  "keyword",
	KindMacro:    "macro",
	KindTemplate: "template",
	KindLogi:     "logi",
	KindLogw:     "logw",
	KindLoge:     "loge",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// reservedWords maps an identifier lexeme to its keyword Kind. Identifiers
// not present here lex as KindIdentifier.
var reservedWords = map[string]Kind{
	"var":       KindVar,
	"int":       KindInt,
	"uint":      KindUint,
	"float":     KindFloat,
	"long":      KindLong,
	"ulong":     KindUlong,
	"double":    KindDouble,
	"char":      KindChar,
	"byte":      KindByte,
	"boolean":   KindBoolean,
	"string":    KindString,
	"void":      KindVoid,
	"mutable":   KindMutable,
	"struct":    KindStruct,
	"union":     KindUnion,
	"interface": KindInterface,
	"as":        KindAs,
	"return":    KindReturn,
	"asm":       KindAsm,
	"type":      KindType,
	"if":        KindIf,
	"else":      KindElse,
	"while":     KindWhile,
	"do":        KindDo,
	"for":       KindFor,
	"namespace": KindNamespace,
	"defer":     KindDefer,
	"func":      KindFunc,
	"inline":    KindInline,
	"public":    KindPublic,
	"import":    KindImport,
	"below":     KindBelow,
	"above":     KindAbove,
	"all":       KindAll,
	"none":      KindNone,
	"operation": KindOperation,
	"cast":      KindCast,
	"autocast":  KindAutocast,

	"define":   KindDefine,
	"ifdef":    KindIfdef,
	"ifndef":   KindIfndef,
	"endif":    KindEndif,
	"undef":    KindUndef,
	"keyword":  KindKeyword,
	"macro":    KindMacro,
	"template": KindTemplate,
	"logi":     KindLogi,
	"logw":     KindLogw,
	"loge":     KindLoge,
}

// lookupIdent classifies an identifier lexeme; true/false are handled
// separately by the lexer as boolean literals, not through this table.
func lookupIdent(ident string) Kind {
	if k, ok := reservedWords[ident]; ok {
		return k
	}
	return KindIdentifier
}

// Token is a single lexical unit: a tagged kind, the line it starts on, and
// its literal text (empty for punctuation whose kind is self-describing).
type Token struct {
	Kind  Kind
	Line  uint32
	Value string
}

// NullToken is the sentinel "end of input" token.
func NullToken() Token {
	return Token{Kind: KindNull}
}

// Render produces the short contextual rendering used in error messages
// ("kind 'value'" or just "kind" when Value is empty).
func (t Token) Render() string {
	if t.Value == "" {
		return t.Kind.String()
	}
	return t.Kind.String() + " '" + t.Value + "'"
}
