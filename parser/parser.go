// Package parser builds a typed AST from a preprocessed Token stream. It
// tracks scopes, declared types, user-defined operators and casts,
// deferred statements, namespaces, function overloads, and cross-module
// imports. Dispatch is a registry of node builders (see ast.Registry), not
// a grammar table.
package parser

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/lumenlang/lumen/ast"
	"github.com/lumenlang/lumen/errors"
	"github.com/lumenlang/lumen/lexer"
	"github.com/lumenlang/lumen/preproc"
	"github.com/lumenlang/lumen/processor"
)

// Importer resolves an import path to source text, the sole filesystem
// collaborator the parser needs — injected so tests can supply an
// in-memory implementation instead of touching disk.
type Importer interface {
	Read(path string) (string, error)
}

// Parser is the lumen typed-AST builder.
type Parser struct {
	p *processor.Processor[lexer.Token]

	arena         *ast.Arena
	registry      *ast.Registry
	declaredTypes *ast.DeclaredTypes

	vars         []ast.Variable
	functions    []*ast.NodeInstance
	operators    []ast.Operation
	casts        []ast.Cast
	autocasts    []ast.Cast
	namespaces   []string
	aliases      map[string][]*ast.NodeInstance
	defersStack  [][]*ast.NodeInstance
	scopeDepth   int
	output       []*ast.NodeInstance

	importer Importer
	file     string
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

// New creates a Parser over tokens (already lexed and preprocessed).
func New(tokens []lexer.Token, file string, importer Importer) *Parser {
	p := &Parser{
		p:             processor.New(tokens, tokensEqual, tokensZero),
		arena:         ast.NewArena(),
		declaredTypes: ast.NewDeclaredTypes(),
		aliases:       map[string][]*ast.NodeInstance{},
		importer:      importer,
		file:          file,
	}
	p.registry = ast.NewRegistry()
	p.registerBuilders()
	return p
}

func (ps *Parser) fail(kind errors.Kind, message string) {
	tok := ps.p.Cur()
	panic(&errors.CompileError{Kind: kind, Message: message, Line: int(tok.Line), Token: tok.Render(), File: ps.file})
}

func kindTok(k lexer.Kind) lexer.Token { return lexer.Token{Kind: k} }

func (ps *Parser) tryConsumeKind(k lexer.Kind) bool { return ps.p.TryConsume(kindTok(k)) }

func (ps *Parser) expectKind(k lexer.Kind, message string) lexer.Token {
	tok, _ := ps.p.TryConsumeOrElse(kindTok(k), func() { ps.fail(errors.MissingToken, message) })
	return tok
}

// ParseProgram runs the parser to completion and returns the flat,
// top-level statement list (builders whose Add flag is false never reach
// this list; their effects — namespace splicing, operator/cast/variable
// registration — already happened during Build).
func (ps *Parser) ParseProgram() []*ast.NodeInstance {
	for ps.p.HasPeek(0) && ps.p.Cur().Kind != lexer.KindNull {
		node := ps.parseSingle()
		if node.Add {
			ps.output = append(ps.output, node)
		}
	}
	return ps.output
}

// Arena exposes the AST arena created for this parse. The parser allocates
// its Types, Expressions and NodeInstances directly rather than through
// the arena, so the arena holds none of them.
func (ps *Parser) Arena() *ast.Arena { return ps.arena }

// Functions returns every function declaration (including forward-only
// declarations never completed by a body) accumulated during parsing, for
// callers — the code generator, debug printers — that need the full
// overload set rather than just the flat top-level statement list.
func (ps *Parser) Functions() []*ast.NodeInstance { return ps.functions }

// Operators returns every user-declared operation, in declaration order.
func (ps *Parser) Operators() []ast.Operation { return ps.operators }

// Casts returns every explicit user-declared cast, in declaration order.
func (ps *Parser) Casts() []ast.Cast { return ps.casts }

// Autocasts returns every user-declared implicit cast, in declaration order.
func (ps *Parser) Autocasts() []ast.Cast { return ps.autocasts }

// DeclaredTypes exposes the name -> Type table accumulated during parsing.
func (ps *Parser) DeclaredTypes() *ast.DeclaredTypes { return ps.declaredTypes }

func (ps *Parser) parseSingle() *ast.NodeInstance {
	ni := ps.registry.ParseSingle()
	if ni == nil {
		ps.fail(errors.SyntaxError, "Invalid Statement")
	}
	return ni
}

// --- identifiers & namespaces -------------------------------------------------

// decodeIdentifier consumes an identifier, optionally followed by `::`-
// separated continuations, producing a single `:`-joined name.
func (ps *Parser) decodeIdentifier() lexer.Token {
	ident := ps.expectKind(lexer.KindIdentifier, "Expected identifier")
	var sb strings.Builder
	sb.WriteString(ident.Value)
	for ps.tryConsumeKind(lexer.KindDColon) {
		id := ps.expectKind(lexer.KindIdentifier, "Expected identifier")
		sb.WriteByte(':')
		sb.WriteString(id.Value)
	}
	ident.Value = sb.String()
	return ident
}

// getIdentifier is decodeIdentifier additionally qualified by the current
// namespace stack.
func (ps *Parser) getIdentifier() lexer.Token {
	ident := ps.decodeIdentifier()
	if len(ps.namespaces) == 0 {
		return ident
	}
	var sb strings.Builder
	for _, n := range ps.namespaces {
		sb.WriteString(n)
		sb.WriteByte(':')
	}
	sb.WriteString(ident.Value)
	ident.Value = sb.String()
	return ident
}

// --- variable/type bookkeeping -------------------------------------------------

func (ps *Parser) varExists(name string, vars []ast.Variable) bool {
	for _, v := range vars {
		if v.Name == name {
			return true
		}
	}
	return false
}

func (ps *Parser) getVar(name string) ast.Variable {
	for _, v := range ps.vars {
		if v.Name == name {
			return v
		}
	}
	ps.fail(errors.InitialDefinitionError, "Variable does not exist: "+name)
	return ast.Variable{}
}

func (ps *Parser) findOperation(op ast.Operation) int {
	for i, o := range ps.operators {
		if ast.OperationEqual(&o, &op) {
			return i
		}
	}
	return -1
}

func (ps *Parser) findCast(c ast.Cast, list []ast.Cast) int {
	for i, existing := range list {
		if ast.CastEqual(&existing, &c) {
			return i
		}
	}
	return -1
}

// funcHasBody reports whether an equal-signature function with a body is
// already registered, pruning bodyless forward declarations as it scans
// (mirrors the original's erase-as-you-go reconciliation of forward
// declarations against their completing definition).
func (ps *Parser) funcHasBody(instance *ast.NodeInstance) bool {
	name := ast.GetProperty[string](instance, "name")
	retType := ast.GetProperty[*ast.Type](instance, "returnType")
	params := ast.GetProperty[[]ast.Variable](instance, "parameters")

	kept := ps.functions[:0]
	found := false
	for _, fn := range ps.functions {
		if ast.GetProperty[string](fn, "name") != name {
			kept = append(kept, fn)
			continue
		}
		if !ast.Equal(ast.GetProperty[*ast.Type](fn, "returnType"), retType) {
			kept = append(kept, fn)
			continue
		}
		fnParams := ast.GetProperty[[]ast.Variable](fn, "parameters")
		if len(fnParams) != len(params) {
			kept = append(kept, fn)
			continue
		}
		same := true
		for i := range fnParams {
			if !ast.Equal(fnParams[i].Type, params[i].Type) {
				same = false
				break
			}
		}
		if !same {
			kept = append(kept, fn)
			continue
		}
		if ast.GetProperty[*ast.NodeInstance](fn, "body") != nil {
			found = true
			kept = append(kept, fn)
			continue
		}
		// bodyless forward declaration superseded by this definition: drop it
	}
	ps.functions = kept
	return found
}

// --- type parsing --------------------------------------------------------------

// parseType parses `mutable?` followed by a pointer, built-in scalar,
// struct/union, interface, or declared-type-table identifier.
func (ps *Parser) parseType() *ast.Type {
	mut := ps.tryConsumeKind(lexer.KindMutable)

	if ps.p.Cur().Kind == lexer.KindSymbols && ps.p.Cur().Value == "&" {
		ps.p.Consume()
		return &ast.Type{Kind: ast.KindPointer, Mut: mut, Pointee: ps.parseType()}
	}

	scalars := map[lexer.Kind]ast.Kind{
		lexer.KindInt: ast.KindInt, lexer.KindUint: ast.KindUint,
		lexer.KindLong: ast.KindLong, lexer.KindUlong: ast.KindUlong,
		lexer.KindFloat: ast.KindFloat, lexer.KindDouble: ast.KindDouble,
		lexer.KindChar: ast.KindChar, lexer.KindByte: ast.KindByte,
		lexer.KindBoolean: ast.KindBoolean, lexer.KindString: ast.KindString,
		lexer.KindVoid: ast.KindVoid,
	}
	for lk, ak := range scalars {
		if ps.tryConsumeKind(lk) {
			return &ast.Type{Kind: ak, Mut: mut}
		}
	}

	if ps.p.Cur().Kind == lexer.KindStruct || ps.p.Cur().Kind == lexer.KindUnion {
		kind := ast.KindStruct
		if ps.p.Cur().Kind == lexer.KindUnion {
			kind = ast.KindUnion
		}
		ps.p.Consume()
		if ps.tryConsumeKind(lexer.KindSemicolon) {
			return &ast.Type{Kind: kind, Mut: mut}
		}
		ps.expectKind(lexer.KindOpenCurly, "Expected '{'")
		t := &ast.Type{Kind: kind, Mut: mut}
		found := ps.p.DoUntilFind(kindTok(lexer.KindCloseCurly), func() {
			v := ps.parseVar()
			t.Fields = append(t.Fields, v)
			ps.expectKind(lexer.KindSemicolon, "Expected ';'")
		})
		if !found {
			ps.fail(errors.MissingToken, "Expected '}'")
		}
		return t
	}

	if ps.tryConsumeKind(lexer.KindInterface) {
		ps.expectKind(lexer.KindOpenAngle, "Expected '<'")
		ret := ps.parseType()
		if ps.tryConsumeKind(lexer.KindCloseAngle) {
			return &ast.Type{Kind: ast.KindInterface, Mut: mut, ReturnType: ret}
		}
		ps.expectKind(lexer.KindPipe, "Expected '|'")
		var params []*ast.Type
		found := ps.p.DoUntilFindSep(kindTok(lexer.KindCloseAngle), kindTok(lexer.KindComma), func() {
			params = append(params, ps.parseType())
		}, func() { ps.fail(errors.MissingToken, "Expected ','") })
		if !found {
			ps.fail(errors.MissingToken, "Expected '>'")
		}
		return &ast.Type{Kind: ast.KindInterface, Mut: mut, Params: params, ReturnType: ret}
	}

	if ps.p.Cur().Kind == lexer.KindIdentifier {
		name := ps.decodeIdentifier().Value
		declType, incomplete, found := ps.declaredTypes.Lookup(name)
		if !found {
			ps.fail(errors.SyntaxError, "Invalid Type: "+name)
		}
		if incomplete {
			return &ast.Type{Kind: ast.KindPointer, Mut: true, Pointee: &ast.Type{Kind: ast.KindVoid}}
		}
		clone := *declType
		clone.Mut = clone.Mut || mut
		return &clone
	}

	ps.fail(errors.SyntaxError, "Invalid Type")
	return nil
}

// parseVar parses `name : Type`.
func (ps *Parser) parseVar() ast.Variable {
	name := ps.expectKind(lexer.KindIdentifier, "Expected identifier").Value
	ps.expectKind(lexer.KindColon, "Expected type specifier")
	return ast.Variable{Name: name, Type: ps.parseType()}
}

// --- expression parsing (type-directed) -----------------------------------------

// parseExpr builds an Expression and validates it against requiredType;
// a nil requiredType (passed by return statements) skips the cast/type
// check.
func (ps *Parser) parseExpr(requiredType *ast.Type) *ast.Expression {
	expr := ps.parseOperatorExpr(math.MinInt32)
	return ps.coerce(expr, requiredType)
}

// parseOperatorExpr implements precedence climbing over the user-declared
// operator table (ps.operators): every infix and prefix operator in lumen
// is a declared operation, not a language builtin, so the parser has no
// fixed precedence table of its own to consult. minPrec is the lowest
// precedence an infix operator may have to still bind at this level;
// left-associativity falls out of recursing with candidate.Precedence+1
// for the right-hand operand.
func (ps *Parser) parseOperatorExpr(minPrec int32) *ast.Expression {
	left := ps.parseUnary()
	for {
		sym, ok := ps.peekOperatorSymbol()
		if !ok {
			return left
		}
		op, found := ps.findBinaryOp(sym, left.ReturnType, minPrec)
		if !found {
			return left
		}
		ps.p.Consume()
		right := ps.coerce(ps.parseOperatorExpr(op.Precedence+1), op.B)
		left = &ast.Expression{
			Kind:       ast.ExprCustom,
			ReturnType: op.R,
			Custom:     &ast.CustomExpr{A: left, B: right, Op: op},
		}
	}
}

// parseUnary recognizes a declared prefix operator (matched by symbol
// alone; its operand type drives the recursive parse, exactly as a
// function call's declared parameter type drives its argument) before
// falling through to a primary expression. The builtin '*'/'&'
// pointer forms in parsePrimary only fire when no user operation claims
// the same symbol as a unary operator.
func (ps *Parser) parseUnary() *ast.Expression {
	sym, ok := ps.peekOperatorSymbol()
	if ok {
		if op, found := ps.findUnaryOp(sym); found {
			ps.p.Consume()
			operand := ps.parseExpr(op.A)
			return &ast.Expression{Kind: ast.ExprCustom, ReturnType: op.R, Custom: &ast.CustomExpr{A: operand, Op: op}}
		}
	}
	return ps.parsePrimary(nil)
}

// peekOperatorSymbol reports the current token's literal value when it is
// a symbols token, the only kind operator declarations register under.
func (ps *Parser) peekOperatorSymbol() (string, bool) {
	tok := ps.p.Cur()
	if tok.Kind != lexer.KindSymbols {
		return "", false
	}
	return tok.Value, true
}

// findBinaryOp returns the first registered non-unary operator matching
// symbol and left-operand type with precedence >= minPrec.
func (ps *Parser) findBinaryOp(symbol string, aType *ast.Type, minPrec int32) (*ast.Operation, bool) {
	for i := range ps.operators {
		op := &ps.operators[i]
		if op.Unary || op.Symbols != symbol || op.Precedence < minPrec {
			continue
		}
		if ast.Equal(op.A, aType) {
			return op, true
		}
	}
	return nil, false
}

// findUnaryOp returns the first registered unary operator matching symbol.
func (ps *Parser) findUnaryOp(symbol string) (*ast.Operation, bool) {
	for i := range ps.operators {
		op := &ps.operators[i]
		if op.Unary && op.Symbols == symbol {
			return op, true
		}
	}
	return nil, false
}

// coerce returns expr unchanged if its return type already matches
// requiredType, else searches autocasts for a matching conversion and
// wraps expr in a cast node, else raises a Type Error.
func (ps *Parser) coerce(expr *ast.Expression, requiredType *ast.Type) *ast.Expression {
	if requiredType == nil || ast.Equal(expr.ReturnType, requiredType) {
		return expr
	}
	for _, c := range ps.autocasts {
		if ast.Equal(c.From, expr.ReturnType) && ast.Equal(c.To, requiredType) {
			return &ast.Expression{
				Kind:       ast.ExprCast,
				ReturnType: requiredType,
				Cast:       &ast.CastExpr{Inner: expr, Cast: &c},
			}
		}
	}
	ps.fail(errors.TypeError, "Type mismatch, no autocast available")
	return nil
}

func (ps *Parser) parsePrimary(requiredType *ast.Type) *ast.Expression {
	tok := ps.p.Cur()

	switch {
	case tok.Kind == lexer.KindLiteral:
		ps.p.Consume()
		lit := ast.ParseLiteral(tok.Value, int(tok.Line))
		return &ast.Expression{Kind: ast.ExprLiteral, ReturnType: lit.ReturnType(), Literal: lit}

	case tok.Kind == lexer.KindSymbols && tok.Value == "*":
		ps.p.Consume()
		inner := ps.parsePrimary(nil)
		if inner.ReturnType.Kind != ast.KindPointer {
			ps.fail(errors.TypeError, "Cannot dereference a non-pointer type")
		}
		return &ast.Expression{Kind: ast.ExprDereference, ReturnType: inner.ReturnType.Pointee, Inner: inner}

	case tok.Kind == lexer.KindSymbols && tok.Value == "&":
		ps.p.Consume()
		inner := ps.parsePrimary(nil)
		return &ast.Expression{Kind: ast.ExprReference, ReturnType: &ast.Type{Kind: ast.KindPointer, Pointee: inner.ReturnType}, Inner: inner}

	case tok.Kind == lexer.KindIdentifier:
		return ps.parseIdentifierExpr(requiredType)

	default:
		ps.fail(errors.SyntaxError, "Expected expression")
		return nil
	}
}

// parseIdentifierExpr disambiguates a function call, interface reference,
// or plain variable reference, then folds in any trailing `[...]`
// subscript or `.` member-access chain.
func (ps *Parser) parseIdentifierExpr(requiredType *ast.Type) *ast.Expression {
	name := ps.getIdentifier().Value

	var expr *ast.Expression
	switch {
	case ps.p.Cur().Kind == lexer.KindOpenParen:
		expr = ps.parseFuncCall(name, requiredType)
	default:
		expr = ps.parseVariableOrInterfaceRef(name, requiredType)
	}

	for {
		switch {
		case ps.tryConsumeKind(lexer.KindOpenSquare):
			idx := ps.parseExpr(&ast.Type{Kind: ast.KindInt})
			ps.expectKind(lexer.KindCloseSquare, "Expected ']'")
			elemType := expr.ReturnType
			if elemType.Kind == ast.KindPointer {
				elemType = elemType.Pointee
			}
			expr = &ast.Expression{Kind: ast.ExprSubscript, ReturnType: elemType, Subscript: &ast.SubscriptExpr{Base: expr, Index: idx}}
		case ps.tryConsumeKind(lexer.KindDot):
			field := ps.expectKind(lexer.KindIdentifier, "Expected field name").Value
			fieldType := ps.lookupFieldType(expr.ReturnType, field)
			expr = &ast.Expression{Kind: ast.ExprDotNotation, ReturnType: fieldType, DotNotation: &ast.DotNotationExpr{Base: expr, After: field}}
		default:
			return expr
		}
	}
}

func (ps *Parser) lookupFieldType(base *ast.Type, field string) *ast.Type {
	t := base
	if t.Kind == ast.KindPointer {
		t = t.Pointee
	}
	for _, f := range t.Fields {
		if f.Name == field {
			return f.Type
		}
	}
	ps.fail(errors.TypeError, "No such field: "+field)
	return nil
}

func (ps *Parser) parseVariableOrInterfaceRef(name string, requiredType *ast.Type) *ast.Expression {
	if ps.varExists(name, ps.vars) {
		v := ps.getVar(name)
		return &ast.Expression{Kind: ast.ExprVariable, ReturnType: v.Type, Variable: &v}
	}
	candidates := ps.functionsNamed(name)
	switch len(candidates) {
	case 0:
		ps.fail(errors.LogicError, "Function with provided type specifiers does not exist")
	case 1:
		fn := candidates[0]
		return &ast.Expression{Kind: ast.ExprInterfaceRef, ReturnType: ps.funcSignatureType(fn), InterfaceRef: fn}
	default:
		ps.expectKind(lexer.KindOpenAngle, "Expected '<' to disambiguate overload")
		sig := ps.parseType()
		ps.expectKind(lexer.KindCloseAngle, "Expected '>'")
		for _, fn := range candidates {
			if ast.Equal(ps.funcSignatureType(fn), sig) {
				return &ast.Expression{Kind: ast.ExprInterfaceRef, ReturnType: sig, InterfaceRef: fn}
			}
		}
		ps.fail(errors.LogicError, "Function with provided type specifiers does not exist")
	}
	return nil
}

func (ps *Parser) funcSignatureType(fn *ast.NodeInstance) *ast.Type {
	params := ast.GetProperty[[]ast.Variable](fn, "parameters")
	ret := ast.GetProperty[*ast.Type](fn, "returnType")
	paramTypes := make([]*ast.Type, len(params))
	for i, p := range params {
		paramTypes[i] = p.Type
	}
	return &ast.Type{Kind: ast.KindInterface, Params: paramTypes, ReturnType: ret}
}

func (ps *Parser) functionsNamed(name string) []*ast.NodeInstance {
	var out []*ast.NodeInstance
	for _, fn := range ps.functions {
		if ast.GetProperty[string](fn, "name") == name {
			out = append(out, fn)
		}
	}
	return out
}

// parseFuncCall resolves overload by parameter-type-tuple + return-type
// match: the first candidate whose return type equals requiredType (or is
// reachable via a single autocast) and whose parameters each accept the
// corresponding argument (directly or via autocast) is selected.
func (ps *Parser) parseFuncCall(name string, requiredType *ast.Type) *ast.Expression {
	ps.p.Consume() // '('
	candidates := ps.functionsNamed(name)
	if len(candidates) == 0 {
		ps.fail(errors.LogicError, "Function does not exist")
	}

	var rawArgs [][]lexer.Token
	if ps.p.Cur().Kind != lexer.KindCloseParen {
		var buf []lexer.Token
		for {
			if ps.p.TryConsume(kindTok(lexer.KindCloseParen)) {
				rawArgs = append(rawArgs, buf)
				break
			}
			if ps.p.TryConsume(kindTok(lexer.KindComma)) {
				rawArgs = append(rawArgs, buf)
				buf = nil
				continue
			}
			buf = append(buf, ps.p.Consume())
		}
	} else {
		ps.p.Consume()
	}

	for _, fn := range candidates {
		params := ast.GetProperty[[]ast.Variable](fn, "parameters")
		ret := ast.GetProperty[*ast.Type](fn, "returnType")
		if len(params) != len(rawArgs) {
			continue
		}
		if requiredType != nil && !ast.Equal(ret, requiredType) && !ps.hasAutocast(ret, requiredType) {
			continue
		}
		args, ok := ps.tryParseArgs(rawArgs, params)
		if !ok {
			continue
		}
		return &ast.Expression{Kind: ast.ExprFuncCall, ReturnType: ret, FuncCall: &ast.FuncCall{Callee: name, Args: args}}
	}
	ps.fail(errors.LogicError, "Function does not exist")
	return nil
}

func (ps *Parser) hasAutocast(from, to *ast.Type) bool {
	for _, c := range ps.autocasts {
		if ast.Equal(c.From, from) && ast.Equal(c.To, to) {
			return true
		}
	}
	return false
}

// tryParseArgs parses each raw argument token group against the callee's
// parameter type (propagating the parameter type into the argument
// sub-parse, resolving the underspecified call-argument propagation
// question in favor of propagation — see DESIGN.md). A CompileError raised
// while parsing an argument makes it report false, so parseFuncCall moves
// on to the next candidate.
func (ps *Parser) tryParseArgs(rawArgs [][]lexer.Token, params []ast.Variable) (args []*ast.Expression, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isCompileErr := r.(*errors.CompileError); !isCompileErr {
				panic(r)
			}
			args, ok = nil, false
		}
	}()
	args = make([]*ast.Expression, len(rawArgs))
	for i, toks := range rawArgs {
		sub := New(append(append([]lexer.Token{}, toks...), lexer.NullToken()), ps.file, ps.importer)
		sub.vars = ps.vars
		sub.functions = ps.functions
		sub.operators = ps.operators
		sub.casts = ps.casts
		sub.autocasts = ps.autocasts
		sub.declaredTypes = ps.declaredTypes
		args[i] = sub.parseExpr(params[i].Type)
	}
	return args, true
}

// --- imports ---------------------------------------------------------------------

func (ps *Parser) resolveImportPath(path []string) string {
	if len(path) < 2 {
		ps.fail(errors.FileError, "Invalid path for import statement")
	}
	dirParts := path[:len(path)-2]
	fileName := path[len(path)-2]
	joined := append(append([]string{}, dirParts...), fileName+lexer.SourceExt)
	return filepath.Join(joined...)
}

// importField reads the named file, lexes and preprocesses it, then
// extracts the tokens belonging to the public field named fieldName
// (public sections are delimited `public Name $ ... $`), erroring if the
// field is absent.
func (ps *Parser) importField(path, fieldName string) []lexer.Token {
	src, err := ps.importer.Read(path)
	if err != nil {
		ps.fail(errors.FileError, "Cannot open file: "+path)
	}
	toks := lexer.New(src, path).Lex()
	toks = preproc.New(toks, path, discardSink{}).Expand()

	var publics []lexer.Token
	found := false
	for i := 0; i < len(toks); i++ {
		if toks[i].Kind != lexer.KindPublic {
			continue
		}
		i++
		if i >= len(toks) || toks[i].Kind != lexer.KindIdentifier {
			ps.fail(errors.InternalError, "Syntax error in imported file")
		}
		name := toks[i].Value
		i++
		if i >= len(toks) || toks[i].Kind != lexer.KindPublicClosure {
			ps.fail(errors.InternalError, "Syntax error in imported file")
		}
		i++
		for i < len(toks) && toks[i].Kind != lexer.KindPublicClosure {
			if name == fieldName {
				publics = append(publics, toks[i])
				found = true
			}
			i++
		}
	}
	if !found {
		ps.fail(errors.SyntaxError, "Imported field does not exist: "+fieldName)
	}
	return publics
}

type discardSink struct{}

func (discardSink) Info(string) {}
func (discardSink) Warn(string) {}

// --- precedence clause helpers ---------------------------------------------------

func (ps *Parser) parsePrecedenceClause() int32 {
	if ps.p.Cur().Kind != lexer.KindBelow && ps.p.Cur().Kind != lexer.KindAbove && ps.p.Cur().Kind != lexer.KindNone {
		ps.fail(errors.SyntaxError, "Expected precedence specifier")
	}
	if ps.tryConsumeKind(lexer.KindNone) {
		return 0
	}
	clause := ps.p.Consume()
	if ps.tryConsumeKind(lexer.KindAll) {
		if clause.Kind == lexer.KindAbove {
			return math.MaxInt32
		}
		return math.MinInt32
	}

	var tofind ast.Operation
	if ps.p.Cur().Kind == lexer.KindSymbols {
		tofind.Unary = true
	} else {
		tofind.A = ps.parseType()
	}
	tofind.Symbols = ps.expectKind(lexer.KindSymbols, "Expected symbols").Value
	if tofind.Unary {
		tofind.A = ps.parseType()
	} else {
		tofind.B = ps.parseType()
	}
	ps.expectKind(lexer.KindPipe, "Expected '|'")
	tofind.R = ps.parseType()

	idx := ps.findOperation(tofind)
	if idx < 0 {
		ps.fail(errors.SyntaxError, "Operation does not exist")
	}
	base := ps.operators[idx].Precedence
	if clause.Kind == lexer.KindAbove {
		return base + 1
	}
	return base - 1
}
