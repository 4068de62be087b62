// Package preproc implements the token-level macro/conditional preprocessor
// that runs between the lexer and the parser. It consumes a Token sequence
// and produces an expanded Token sequence; it introduces no new syntax of
// its own beyond the directives handled by Preprocessor.directive.
package preproc

import (
	"strings"

	"github.com/lumenlang/lumen/diagnostics"
	"github.com/lumenlang/lumen/errors"
	"github.com/lumenlang/lumen/lexer"
	"github.com/lumenlang/lumen/processor"
)

type macro struct {
	params []string
	body   []lexer.Token
}

type keyword struct {
	placeholder lexer.Token
	body        []lexer.Token
}

type template struct {
	generics []string
	params   []string
	bodySlot string
	content  []lexer.Token
}

// Preprocessor expands #define/#macro/#keyword/#template directives and
// identifier-triggered substitutions over a flat Token stream.
type Preprocessor struct {
	p *processor.Processor[lexer.Token]

	definitions map[string][]lexer.Token
	macros      map[string]macro
	keywords    map[string]keyword
	templates   map[string]template
	internal    map[string][]lexer.Token

	file string
	diag diagnostics.Sink
}

func tokensEqual(a, b lexer.Token) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Value != "" && b.Value != "" && a.Value != b.Value {
		return false
	}
	return true
}

func tokensZero() lexer.Token { return lexer.NullToken() }

// New creates a Preprocessor over tokens. diag receives #logi/#logw output;
// #loge aborts with a DirectiveError regardless of diag.
func New(tokens []lexer.Token, file string, diag diagnostics.Sink) *Preprocessor {
	return &Preprocessor{
		p:           processor.New(tokens, tokensEqual, tokensZero),
		definitions: map[string][]lexer.Token{},
		macros:      map[string]macro{},
		keywords:    map[string]keyword{},
		templates:   map[string]template{},
		internal:    map[string][]lexer.Token{},
		file:        file,
		diag:        diag,
	}
}

func (pp *Preprocessor) fail(kind errors.Kind, message string) {
	tok := pp.p.Cur()
	panic(&errors.CompileError{Kind: kind, Message: message, Line: int(tok.Line), Token: tok.Render(), File: pp.file})
}

func kindTok(k lexer.Kind) lexer.Token { return lexer.Token{Kind: k} }

func (pp *Preprocessor) tryConsumeKind(k lexer.Kind) bool {
	return pp.p.TryConsume(kindTok(k))
}

func (pp *Preprocessor) expectKind(k lexer.Kind, message string) lexer.Token {
	tok, ok := pp.p.TryConsumeOrElse(kindTok(k), func() { pp.fail(errors.MissingToken, message) })
	_ = ok
	return tok
}

func (pp *Preprocessor) getIdentifier() string {
	tok, ok := pp.p.TryConsumeOrElse(kindTok(lexer.KindIdentifier), func() { pp.fail(errors.MissingToken, "Expected identifier") })
	if !ok {
		return ""
	}
	return tok.Value
}

func (pp *Preprocessor) isUnique(name string) bool {
	if _, ok := pp.definitions[name]; ok {
		return false
	}
	if _, ok := pp.macros[name]; ok {
		return false
	}
	if _, ok := pp.keywords[name]; ok {
		return false
	}
	if _, ok := pp.templates[name]; ok {
		return false
	}
	return true
}

func (pp *Preprocessor) mustBeUnique(name string) {
	if !pp.isUnique(name) {
		pp.fail(errors.RedefinitionError, "Definition already exists: "+name)
	}
}

// consumeBodyUntilDirective reads tokens until a bare '#' terminator,
// mirroring the directive-body convention "... #".
func (pp *Preprocessor) consumeBodyUntilDirective() []lexer.Token {
	var body []lexer.Token
	found := pp.p.DoUntilFind(kindTok(lexer.KindPreprocessor), func() {
		body = append(body, pp.p.Consume())
	})
	if !found {
		pp.fail(errors.MissingToken, "Expected '#'")
	}
	return body
}

// identList reads a comma-separated list of single identifiers until
// terminator and returns their names (used for generics and params
// declarations).
func (pp *Preprocessor) identList(terminator lexer.Kind) []string {
	var names []string
	found := pp.p.DoUntilFindSep(kindTok(terminator), kindTok(lexer.KindComma), func() {
		names = append(names, pp.getIdentifier())
	}, func() { pp.fail(errors.MissingToken, "Expected ','") })
	if !found {
		pp.fail(errors.MissingToken, "Expected terminator")
	}
	return names
}

// tokenGroupList reads comma-separated raw token groups until terminator
// (used for macro/template call arguments, which are not single tokens).
func (pp *Preprocessor) tokenGroupList(terminator lexer.Kind) [][]lexer.Token {
	var groups [][]lexer.Token
	var buf []lexer.Token
	for {
		if pp.p.TryConsume(kindTok(terminator)) {
			groups = append(groups, buf)
			return groups
		}
		if pp.p.TryConsume(kindTok(lexer.KindComma)) {
			groups = append(groups, buf)
			buf = nil
			continue
		}
		if !pp.p.HasPeek(0) {
			pp.fail(errors.MissingToken, "Expected terminator")
		}
		buf = append(buf, pp.p.Consume())
	}
}

// withBinding installs tokens under name in table for the duration of fn,
// guaranteeing removal via defer even if fn panics (a fatal directive
// error propagating out of a nested expansion).
func (pp *Preprocessor) withBinding(name string, tokens []lexer.Token, fn func()) {
	pp.internal[name] = tokens
	defer delete(pp.internal, name)
	fn()
}

// withContent swaps the cursor onto tokens for the duration of fn, then
// restores the prior content and position.
func (pp *Preprocessor) withContent(tokens []lexer.Token, fn func()) {
	oldContent, oldPeeked := pp.p.Content, pp.p.Peeked
	pp.p.Content, pp.p.Peeked = tokens, 0
	defer func() { pp.p.Content, pp.p.Peeked = oldContent, oldPeeked }()
	fn()
}

// Expand runs the preprocessor to completion and returns the expanded
// Token stream, terminated by a KindNull sentinel.
func (pp *Preprocessor) Expand() []lexer.Token {
	var out []lexer.Token
	for pp.p.HasPeek(0) {
		pp.preprocessSingle(&out)
	}
	out = append(out, lexer.NullToken())
	return out
}

func (pp *Preprocessor) preprocessSingle(out *[]lexer.Token) {
	switch {
	case pp.tryConsumeKind(lexer.KindPreprocessor):
		pp.directive(out)
	case pp.p.Cur().Kind == lexer.KindIdentifier:
		pp.identifierForm(out)
	default:
		*out = append(*out, pp.p.Consume())
	}
}

func (pp *Preprocessor) directive(out *[]lexer.Token) {
	switch {
	case pp.tryConsumeKind(lexer.KindDefine):
		name := pp.getIdentifier()
		pp.mustBeUnique(name)
		pp.definitions[name] = pp.consumeBodyUntilDirective()

	case pp.tryConsumeKind(lexer.KindMacro):
		name := pp.getIdentifier()
		pp.mustBeUnique(name)
		pp.expectKind(lexer.KindOpenParen, "Expected '('")
		params := pp.identList(lexer.KindCloseParen)
		body := pp.consumeBodyUntilDirective()
		pp.macros[name] = macro{params: params, body: body}

	case pp.tryConsumeKind(lexer.KindKeyword):
		name := pp.getIdentifier()
		pp.mustBeUnique(name)
		pp.expectKind(lexer.KindOpenAngle, "Expected '<'")
		word := pp.p.Consume()
		pp.expectKind(lexer.KindCloseAngle, "Expected '>'")
		body := pp.consumeBodyUntilDirective()
		pp.keywords[name] = keyword{placeholder: word, body: body}

	case pp.tryConsumeKind(lexer.KindTemplate):
		name := pp.getIdentifier()
		pp.mustBeUnique(name)
		var t template
		pp.expectKind(lexer.KindOpenAngle, "Expected '<'")
		t.generics = pp.identList(lexer.KindCloseAngle)
		pp.expectKind(lexer.KindOpenParen, "Expected '('")
		t.params = pp.identList(lexer.KindCloseParen)
		pp.expectKind(lexer.KindOpenSquare, "Expected '['")
		t.bodySlot = pp.getIdentifier()
		pp.expectKind(lexer.KindCloseSquare, "Expected ']'")
		t.content = pp.consumeBodyUntilDirective()
		pp.templates[name] = t

	case pp.tryConsumeKind(lexer.KindUndef):
		name := pp.getIdentifier()
		switch {
		case deleteIfPresent(pp.definitions, name):
		case deleteIfPresent(pp.macros, name):
		case deleteIfPresent(pp.keywords, name):
		case deleteIfPresent(pp.templates, name):
		default:
			pp.fail(errors.SyntaxError, "Definition does not exist: "+name)
		}

	case pp.p.Cur().Kind == lexer.KindIfdef || pp.p.Cur().Kind == lexer.KindIfndef:
		negative := pp.p.Consume().Kind == lexer.KindIfndef
		name := pp.getIdentifier()
		ignore := pp.isUnique(name) != negative
		found := pp.p.DoUntilFind(kindTok(lexer.KindEndif), func() {
			// The '#' of the closing #endif is dropped here so the loop
			// can consume the endif keyword as its terminator.
			if ignore || (pp.p.Cur().Kind == lexer.KindPreprocessor && pp.p.Peek(1).Kind == lexer.KindEndif) {
				pp.p.Consume()
				return
			}
			pp.preprocessSingle(out)
		})
		if !found {
			pp.fail(errors.MissingToken, "Expected '#endif'")
		}

	case pp.p.Cur().Kind == lexer.KindLogi || pp.p.Cur().Kind == lexer.KindLogw || pp.p.Cur().Kind == lexer.KindLoge:
		pp.logDirective()

	default:
		pp.fail(errors.SyntaxError, "Unknown preprocessor directive")
	}
}

func deleteIfPresent[V any](m map[string]V, name string) bool {
	if _, ok := m[name]; !ok {
		return false
	}
	delete(m, name)
	return true
}

func (pp *Preprocessor) logDirective() {
	var sev string
	switch {
	case pp.tryConsumeKind(lexer.KindLogi):
		sev = "info"
	case pp.tryConsumeKind(lexer.KindLogw):
		sev = "warn"
	default:
		pp.p.Consume() // logge
		sev = "error"
	}
	var sb strings.Builder
	found := pp.p.DoUntilFind(kindTok(lexer.KindPreprocessor), func() {
		sb.WriteString(pp.p.Consume().Value)
		sb.WriteByte(' ')
	})
	if !found {
		pp.fail(errors.MissingToken, "Expected '#'")
	}
	msg := strings.TrimSpace(sb.String())
	switch sev {
	case "info":
		pp.diag.Info(msg)
	case "warn":
		pp.diag.Warn(msg)
	case "error":
		pp.fail(errors.DirectiveError, msg)
	}
}

// identifierForm handles an identifier outside a directive: @fragment
// composition, then resolution in definitions -> internal -> keywords ->
// macros -> templates precedence order, or verbatim passthrough.
func (pp *Preprocessor) identifierForm(out *[]lexer.Token) {
	ident := pp.p.Consume()
	for pp.tryConsumeKind(lexer.KindAt) {
		frag := pp.getIdentifier()
		ident.Value += pp.resolveFragment(frag)
	}
	name := ident.Value

	switch {
	case pp.expandNamed(pp.definitions, name, out):
	case pp.expandNamed(pp.internal, name, out):
	case pp.expandKeyword(name, out):
	case pp.expandMacro(name, out):
	case pp.expandTemplate(name, out):
	default:
		*out = append(*out, ident)
	}
}

// resolveFragment renders an @name fragment's expansion as literal text,
// falling back to the fragment name itself if undefined.
func (pp *Preprocessor) resolveFragment(name string) string {
	var body []lexer.Token
	if b, ok := pp.definitions[name]; ok {
		body = b
	} else if b, ok := pp.internal[name]; ok {
		body = b
	} else {
		return name
	}
	var sb strings.Builder
	for _, t := range body {
		sb.WriteString(t.Value)
	}
	return sb.String()
}

func (pp *Preprocessor) expandNamed(table map[string][]lexer.Token, name string, out *[]lexer.Token) bool {
	body, ok := table[name]
	if !ok {
		return false
	}
	pp.withContent(body, func() { pp.expandAll(out) })
	return true
}

func (pp *Preprocessor) expandKeyword(name string, out *[]lexer.Token) bool {
	kw, ok := pp.keywords[name]
	if !ok {
		return false
	}
	param := pp.p.Consume()
	pp.withBinding(kw.placeholder.Value, []lexer.Token{param}, func() {
		pp.withContent(kw.body, func() { pp.expandAll(out) })
	})
	return true
}

func (pp *Preprocessor) expandMacro(name string, out *[]lexer.Token) bool {
	m, ok := pp.macros[name]
	if !ok {
		return false
	}
	pp.expectKind(lexer.KindOpenParen, "Expected '('")
	var args [][]lexer.Token
	if len(m.params) == 0 {
		pp.expectKind(lexer.KindCloseParen, "Expected ')'")
	} else {
		args = pp.tokenGroupList(lexer.KindCloseParen)
	}
	if len(args) != len(m.params) {
		pp.fail(errors.SyntaxError, "Macro parameters mismatch")
	}
	pp.bindAllThen(m.params, args, func() {
		pp.withContent(m.body, func() { pp.expandAll(out) })
	})
	return true
}

func (pp *Preprocessor) expandTemplate(name string, out *[]lexer.Token) bool {
	t, ok := pp.templates[name]
	if !ok {
		return false
	}
	var generics, params [][]lexer.Token
	if len(t.generics) > 0 {
		pp.expectKind(lexer.KindOpenAngle, "Expected '<'")
		generics = pp.tokenGroupList(lexer.KindCloseAngle)
	}
	if len(t.params) > 0 {
		pp.expectKind(lexer.KindOpenParen, "Expected '('")
		params = pp.tokenGroupList(lexer.KindCloseParen)
	}
	pp.expectKind(lexer.KindOpenCurly, "Expected '{'")
	var body []lexer.Token
	found := pp.p.DoUntilFind(kindTok(lexer.KindCloseCurly), func() {
		body = append(body, pp.p.Consume())
	})
	if !found {
		pp.fail(errors.MissingToken, "Expected '}'")
	}
	if len(generics) != len(t.generics) {
		pp.fail(errors.SyntaxError, "Template generics mismatch")
	}
	if len(params) != len(t.params) {
		pp.fail(errors.SyntaxError, "Template parameters mismatch")
	}

	pp.bindAllThen(t.generics, generics, func() {
		pp.bindAllThen(t.params, params, func() {
			pp.withBinding(t.bodySlot, body, func() {
				pp.withContent(t.content, func() { pp.expandAll(out) })
			})
		})
	})
	return true
}

// bindAllThen installs names[i] -> values[i] in internal for the duration
// of fn, unbinding all of them (in any order) afterward.
func (pp *Preprocessor) bindAllThen(names []string, values [][]lexer.Token, fn func()) {
	if len(names) == 0 {
		fn()
		return
	}
	pp.withBinding(names[0], values[0], func() {
		pp.bindAllThen(names[1:], values[1:], fn)
	})
}

// expandAll drains the current (swapped-in) content through
// preprocessSingle, appending results to out. Used for nested expansion.
func (pp *Preprocessor) expandAll(out *[]lexer.Token) {
	for pp.p.HasPeek(0) {
		pp.preprocessSingle(out)
	}
}
