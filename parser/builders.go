package parser

import (
	"github.com/lumenlang/lumen/ast"
	"github.com/lumenlang/lumen/errors"
	"github.com/lumenlang/lumen/lexer"
)

// registerBuilders installs every node builder in the fixed priority order
// spec.md names: prefix-unique statements first, with alias_use registered
// ahead of var_set so it can yield to var_set when the identifier names no
// known alias.
func (ps *Parser) registerBuilders() {
	ps.registerScope()
	ps.registerFuncDecl()
	ps.registerVarDecl()
	ps.registerTypeDecl()
	ps.registerPublicField()
	ps.registerImport()
	ps.registerNamesp()
	ps.registerDefer()
	ps.registerAliasUse()
	ps.registerVarSet()
	ps.registerReturnStmt()
	ps.registerAsmCode()
	ps.registerOperationDecl()
	ps.registerCastDecl()
	ps.registerIfStmt()
	ps.registerWhileStmt()
	ps.registerDoWhileStmt()
	ps.registerForStmt()
	ps.registerAliasDecl()
}

func (ps *Parser) registerScope() {
	b := ast.NewBuilder(ast.NodeScope, func() bool { return ps.tryConsumeKind(lexer.KindOpenCurly) })
	b.Property("content", func(*ast.NodeInstance) any {
		var buf []*ast.NodeInstance
		varIndex := len(ps.vars)
		ps.scopeDepth++
		ps.defersStack = append(ps.defersStack, nil)
		found := ps.p.DoUntilFind(kindTok(lexer.KindCloseCurly), func() {
			node := ps.parseSingle()
			if node.Add {
				buf = append(buf, node)
			}
		})
		if !found {
			ps.fail(errors.MissingToken, "Expected '}'")
		}
		defers := ps.defersStack[len(ps.defersStack)-1]
		ps.defersStack = ps.defersStack[:len(ps.defersStack)-1]
		for i := len(defers) - 1; i >= 0; i-- {
			if defers[i].Add {
				buf = append(buf, defers[i])
			}
		}
		ps.vars = ps.vars[:varIndex]
		ps.scopeDepth--
		return buf
	})
	ps.registry.Register(b)
}

func (ps *Parser) registerFuncDecl() {
	b := ast.NewBuilder(ast.NodeFuncDecl, func() bool { return ps.tryConsumeKind(lexer.KindFunc) })
	b.Property("inline", func(*ast.NodeInstance) any { return ps.tryConsumeKind(lexer.KindInline) })
	b.Property("name", func(*ast.NodeInstance) any { return ps.getIdentifier().Value })
	b.Property("parameters", func(*ast.NodeInstance) any {
		ps.expectKind(lexer.KindOpenParen, "Expected '('")
		var params []ast.Variable
		found := ps.p.DoUntilFindSep(kindTok(lexer.KindCloseParen), kindTok(lexer.KindComma), func() {
			v := ps.parseVar()
			if ps.varExists(v.Name, ps.vars) {
				ps.fail(errors.RedefinitionError, "Variable already exists")
			}
			if ps.varExists(v.Name, params) {
				ps.fail(errors.RedefinitionError, "Parameter already exists")
			}
			params = append(params, v)
		}, func() { ps.fail(errors.MissingToken, "Expected separating comma") })
		if !found {
			ps.fail(errors.MissingToken, "Expected ')'")
		}
		return params
	})
	b.Property("returnType", func(*ast.NodeInstance) any {
		ps.expectKind(lexer.KindColon, "Expected return type specifier")
		return ps.parseType()
	})
	b.Property("body", func(ni *ast.NodeInstance) any {
		if ps.tryConsumeKind(lexer.KindSemicolon) {
			return (*ast.NodeInstance)(nil)
		}
		index := len(ps.vars)
		params := ast.GetProperty[[]ast.Variable](ni, "parameters")
		ps.vars = append(ps.vars, params...)
		body := ps.parseSingle()
		if body.ID != ast.NodeScope {
			ps.fail(errors.SyntaxError, "Scope expected")
		}
		ps.vars = ps.vars[:index]
		return body
	})
	b.Finally(func(ni *ast.NodeInstance) {
		if ps.scopeDepth > 0 {
			ps.fail(errors.LogicError, "Cannot declare a function inside a scope")
		}
		if ps.funcHasBody(ni) {
			ps.fail(errors.RedefinitionError, "Function already exists")
		}
		ps.functions = append(ps.functions, ni)
	})
	ps.registry.Register(b)
}

func (ps *Parser) registerVarDecl() {
	b := ast.NewBuilder(ast.NodeVarDecl, func() bool { return ps.tryConsumeKind(lexer.KindVar) })
	b.Property("name", func(*ast.NodeInstance) any { return ps.getIdentifier().Value })
	b.Property("type", func(*ast.NodeInstance) any {
		ps.expectKind(lexer.KindColon, "Expected type specifier")
		return ps.parseType()
	})
	b.Property("value", func(ni *ast.NodeInstance) any {
		t := ast.GetProperty[*ast.Type](ni, "type")
		if ps.p.Cur().Kind == lexer.KindSymbols && ps.p.Cur().Value == "=" {
			ps.p.Consume()
			return ps.parseExpr(t)
		}
		return (*ast.Expression)(nil)
	})
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindSemicolon, "Expected ';'") })
	b.Finally(func(ni *ast.NodeInstance) {
		name := ast.GetProperty[string](ni, "name")
		t := ast.GetProperty[*ast.Type](ni, "type")
		if ps.varExists(name, ps.vars) {
			ps.fail(errors.RedefinitionError, "Variable already exists")
		}
		ps.vars = append(ps.vars, ast.Variable{Name: name, Type: t})
	})
	ps.registry.Register(b)
}

func (ps *Parser) registerTypeDecl() {
	b := ast.NewBuilder(ast.NodeTypeDecl, func() bool { return ps.tryConsumeKind(lexer.KindType) })
	b.Property("alias", func(*ast.NodeInstance) any { return ps.getIdentifier().Value })
	b.Property("type", func(*ast.NodeInstance) any {
		if ps.tryConsumeKind(lexer.KindSemicolon) {
			return (*ast.Type)(nil)
		}
		t := ps.parseType()
		ps.expectKind(lexer.KindSemicolon, "Expected ';'")
		return t
	})
	b.Finally(func(ni *ast.NodeInstance) {
		alias := ast.GetProperty[string](ni, "alias")
		t := ast.GetProperty[*ast.Type](ni, "type")
		if t == nil {
			ps.declaredTypes.Forward(alias)
			return
		}
		if !ps.declaredTypes.Complete(alias, t) {
			ps.fail(errors.RedefinitionError, "Cannot declare already existing type")
		}
	})
	ps.registry.Register(b)
}

func (ps *Parser) registerPublicField() {
	b := ast.NewBuilder(ast.NodePublicField, func() bool { return ps.tryConsumeKind(lexer.KindPublic) })
	b.Property("name", func(*ast.NodeInstance) any {
		return ps.expectKind(lexer.KindIdentifier, "Expected identifier").Value
	})
	b.Property("content", func(*ast.NodeInstance) any {
		ps.expectKind(lexer.KindPublicClosure, "Expected '$'")
		var content []*ast.NodeInstance
		found := ps.p.DoUntilFind(kindTok(lexer.KindPublicClosure), func() {
			content = append(content, ps.parseSingle())
		})
		if !found {
			ps.fail(errors.MissingToken, "Expected '$'")
		}
		return content
	})
	ps.registry.Register(b)
}

func (ps *Parser) registerImport() {
	b := ast.NewBuilder(ast.NodeImport, func() bool { return ps.tryConsumeKind(lexer.KindImport) })
	b.Property("path", func(*ast.NodeInstance) any {
		var path []string
		found := ps.p.DoUntilFindSep(kindTok(lexer.KindSemicolon), kindTok(lexer.KindDot), func() {
			path = append(path, ps.expectKind(lexer.KindIdentifier, "Expected identifier").Value)
		}, func() { ps.fail(errors.MissingToken, "Expected '.' separator") })
		if !found {
			ps.fail(errors.MissingToken, "Expected ';'")
		}
		return path
	})
	b.Finally(func(ni *ast.NodeInstance) {
		path := ast.GetProperty[[]string](ni, "path")
		fsPath := ps.resolveImportPath(path)
		fieldName := path[len(path)-1]
		imported := ps.importField(fsPath, fieldName)
		rest := ps.p.Content[ps.p.Peeked:]
		ps.p.Content = append(append(append([]lexer.Token{}, ps.p.Content[:ps.p.Peeked]...), imported...), rest...)
	})
	b.NotAdd()
	ps.registry.Register(b)
}

func (ps *Parser) registerNamesp() {
	b := ast.NewBuilder(ast.NodeNamesp, func() bool { return ps.tryConsumeKind(lexer.KindNamespace) })
	b.NotAdd()
	b.Property("name", func(*ast.NodeInstance) any {
		return ps.expectKind(lexer.KindIdentifier, "Expected identifier").Value
	})
	b.Finally(func(ni *ast.NodeInstance) {
		ps.expectKind(lexer.KindOpenCurly, "Expected '{'")
		name := ast.GetProperty[string](ni, "name")
		for _, n := range ps.namespaces {
			if n == name {
				ps.fail(errors.LogicError, "Namespace already in use")
			}
		}
		ps.namespaces = append(ps.namespaces, name)
		found := ps.p.DoUntilFind(kindTok(lexer.KindCloseCurly), func() {
			node := ps.parseSingle()
			if node.Add {
				ps.output = append(ps.output, node)
			}
		})
		ps.namespaces = ps.namespaces[:len(ps.namespaces)-1]
		if !found {
			ps.fail(errors.MissingToken, "Expected '}'")
		}
	})
	ps.registry.Register(b)
}

func (ps *Parser) registerDefer() {
	b := ast.NewBuilder(ast.NodeDefer, func() bool { return ps.tryConsumeKind(lexer.KindDefer) })
	b.NotAdd()
	b.Finally(func(*ast.NodeInstance) {
		if ps.scopeDepth <= 0 {
			ps.fail(errors.LogicError, "Cannot use defer out of scope")
		}
		node := ps.parseSingle()
		top := len(ps.defersStack) - 1
		ps.defersStack[top] = append(ps.defersStack[top], node)
	})
	ps.registry.Register(b)
}

// registerAliasUse registers the node whose predicate yields to var_set
// when the identifier isn't a known alias, per the fixed registration
// order spec.md names.
func (ps *Parser) registerAliasUse() {
	b := ast.NewBuilder(ast.NodeAliasUse, func() bool {
		return ps.p.Cur().Kind == lexer.KindIdentifier && ps.isAliasAhead()
	})
	b.Finally(func(*ast.NodeInstance) {
		name := ps.p.Consume().Value
		ps.expectKind(lexer.KindSemicolon, "Expected ';'")
		replayed := ps.aliases[name]
		ps.output = append(ps.output, replayed...)
	})
	b.NotAdd()
	ps.registry.Register(b)
}

func (ps *Parser) isAliasAhead() bool {
	_, ok := ps.aliases[ps.p.Cur().Value]
	return ok
}

func (ps *Parser) registerVarSet() {
	b := ast.NewBuilder(ast.NodeVarSet, func() bool { return ps.p.Cur().Kind == lexer.KindIdentifier })
	b.Property("name", func(*ast.NodeInstance) any { return ps.getIdentifier().Value })
	b.Property("value", func(ni *ast.NodeInstance) any {
		name := ast.GetProperty[string](ni, "name")
		v := ps.getVar(name)
		if ps.p.Cur().Kind == lexer.KindSymbols && ps.p.Cur().Value == "=" {
			ps.p.Consume()
			return ps.parseExpr(v.Type)
		}
		ps.fail(errors.MissingToken, "Expected '='")
		return nil
	})
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindSemicolon, "Expected ';'") })
	ps.registry.Register(b)
}

func (ps *Parser) registerReturnStmt() {
	b := ast.NewBuilder(ast.NodeReturnStmt, func() bool { return ps.tryConsumeKind(lexer.KindReturn) })
	b.Property("value", func(*ast.NodeInstance) any { return ps.parseExpr(nil) })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindSemicolon, "Expected ';'") })
	ps.registry.Register(b)
}

func (ps *Parser) registerAsmCode() {
	b := ast.NewBuilder(ast.NodeAsmCode, func() bool { return ps.p.Cur().Kind == lexer.KindAsm })
	b.Property("code", func(*ast.NodeInstance) any { return ps.p.Consume().Value })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindSemicolon, "Expected ';'") })
	ps.registry.Register(b)
}

func (ps *Parser) registerOperationDecl() {
	b := ast.NewBuilder(ast.NodeOperationDecl, func() bool { return ps.tryConsumeKind(lexer.KindOperation) })
	b.Property("symbol", func(*ast.NodeInstance) any {
		return ps.expectKind(lexer.KindSymbols, "Expected symbols").Value
	})
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindOpenAngle, "Expected '<'") })
	b.Property("operand1", func(*ast.NodeInstance) any { return ps.parseVar() })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindComma, "Expected ','") })
	b.Property("operand2", func(*ast.NodeInstance) any {
		if ps.p.Cur().Kind == lexer.KindBelow || ps.p.Cur().Kind == lexer.KindAbove || ps.p.Cur().Kind == lexer.KindNone {
			return (*ast.Variable)(nil)
		}
		v := ps.parseVar()
		ps.expectKind(lexer.KindComma, "Expected ','")
		return &v
	})
	b.Property("precedence", func(*ast.NodeInstance) any { return ps.parsePrecedenceClause() })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindCloseAngle, "Expected '>'") })
	b.Property("retType", func(*ast.NodeInstance) any { return ps.parseType() })
	b.Property("body", func(ni *ast.NodeInstance) any {
		prev := len(ps.vars)
		op1 := ast.GetProperty[ast.Variable](ni, "operand1")
		op2 := ast.GetProperty[*ast.Variable](ni, "operand2")
		ps.vars = append(ps.vars, op1)
		if op2 != nil {
			ps.vars = append(ps.vars, *op2)
		}
		body := ps.parseSingle()
		ps.vars = ps.vars[:prev]
		return body
	})
	b.NotAdd()
	b.Finally(func(ni *ast.NodeInstance) {
		op1 := ast.GetProperty[ast.Variable](ni, "operand1")
		op2 := ast.GetProperty[*ast.Variable](ni, "operand2")
		symbols := ast.GetProperty[string](ni, "symbol")
		retType := ast.GetProperty[*ast.Type](ni, "retType")
		precedence := ast.GetProperty[int32](ni, "precedence")
		body := ast.GetProperty[*ast.NodeInstance](ni, "body")
		op := ast.Operation{Unary: op2 == nil, Symbols: symbols, A: op1.Type, R: retType, Body: body, Precedence: precedence, Params: []ast.Variable{op1}}
		if op2 != nil {
			op.B = op2.Type
			op.Params = append(op.Params, *op2)
		}
		if ps.findOperation(op) > -1 {
			ps.fail(errors.SyntaxError, "Operation already exists")
		}
		ps.operators = append(ps.operators, op)
	})
	ps.registry.Register(b)
}

func (ps *Parser) registerCastDecl() {
	b := ast.NewBuilder(ast.NodeCastDecl, func() bool {
		return ps.p.Cur().Kind == lexer.KindCast || ps.p.Cur().Kind == lexer.KindAutocast
	})
	b.Property("auto", func(*ast.NodeInstance) any { return ps.p.Consume().Kind == lexer.KindAutocast })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindOpenAngle, "Expected '<'") })
	b.Property("operand", func(*ast.NodeInstance) any { return ps.parseVar() })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindCloseAngle, "Expected '>'") })
	b.Property("retType", func(*ast.NodeInstance) any { return ps.parseType() })
	b.Property("body", func(ni *ast.NodeInstance) any {
		prev := len(ps.vars)
		ps.vars = append(ps.vars, ast.GetProperty[ast.Variable](ni, "operand"))
		body := ps.parseSingle()
		ps.vars = ps.vars[:prev]
		return body
	})
	b.NotAdd()
	b.Finally(func(ni *ast.NodeInstance) {
		isAuto := ast.GetProperty[bool](ni, "auto")
		v := ast.GetProperty[ast.Variable](ni, "operand")
		retType := ast.GetProperty[*ast.Type](ni, "retType")
		body := ast.GetProperty[*ast.NodeInstance](ni, "body")
		c := ast.Cast{From: v.Type, To: retType, Body: body, Param: v}
		list := &ps.casts
		if isAuto {
			list = &ps.autocasts
		}
		if ps.findCast(c, *list) > -1 {
			ps.fail(errors.SyntaxError, "Cast already exists")
		}
		*list = append(*list, c)
	})
	ps.registry.Register(b)
}

func boolType() *ast.Type { return &ast.Type{Kind: ast.KindBoolean} }

func (ps *Parser) registerIfStmt() {
	b := ast.NewBuilder(ast.NodeIfStmt, func() bool { return ps.tryConsumeKind(lexer.KindIf) })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindOpenParen, "Expected '('") })
	b.Property("expr", func(*ast.NodeInstance) any { return ps.parseExpr(boolType()) })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindCloseParen, "Expected ')'") })
	b.Property("body", func(*ast.NodeInstance) any { return ps.parseSingle() })
	b.Property("else", func(*ast.NodeInstance) any {
		if ps.tryConsumeKind(lexer.KindElse) {
			return ps.parseSingle()
		}
		return (*ast.NodeInstance)(nil)
	})
	ps.registry.Register(b)
}

func (ps *Parser) registerWhileStmt() {
	b := ast.NewBuilder(ast.NodeWhileStmt, func() bool { return ps.tryConsumeKind(lexer.KindWhile) })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindOpenParen, "Expected '('") })
	b.Property("expr", func(*ast.NodeInstance) any { return ps.parseExpr(boolType()) })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindCloseParen, "Expected ')'") })
	b.Property("body", func(*ast.NodeInstance) any { return ps.parseSingle() })
	ps.registry.Register(b)
}

func (ps *Parser) registerDoWhileStmt() {
	b := ast.NewBuilder(ast.NodeDoWhileStmt, func() bool { return ps.tryConsumeKind(lexer.KindDo) })
	b.Property("body", func(*ast.NodeInstance) any { return ps.parseSingle() })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindWhile, "Expected 'while'") })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindOpenParen, "Expected '('") })
	b.Property("expr", func(*ast.NodeInstance) any { return ps.parseExpr(boolType()) })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindCloseParen, "Expected ')'") })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindSemicolon, "Expected ';'") })
	ps.registry.Register(b)
}

func (ps *Parser) registerForStmt() {
	b := ast.NewBuilder(ast.NodeForStmt, func() bool { return ps.tryConsumeKind(lexer.KindFor) })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindOpenParen, "Expected '('") })
	b.Property("variable", func(*ast.NodeInstance) any { return ps.parseVar() })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindSemicolon, "Expected ';'") })
	b.Property("expr", func(*ast.NodeInstance) any { return ps.parseExpr(boolType()) })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindSemicolon, "Expected ';'") })
	b.Property("incr", func(*ast.NodeInstance) any { return ps.parseSingle() })
	b.Require(func(*ast.NodeInstance) { ps.expectKind(lexer.KindCloseParen, "Expected ')'") })
	b.Property("body", func(*ast.NodeInstance) any { return ps.parseSingle() })
	ps.registry.Register(b)
}

// registerAliasDecl implements the `@name { ... }` capture form: the
// enclosed statements are parsed and built once, then stored under name
// for alias_use to replay (splicing the same *ast.NodeInstance pointers,
// so finally hooks never re-fire).
func (ps *Parser) registerAliasDecl() {
	b := ast.NewBuilder(ast.NodeAliasDecl, func() bool { return ps.tryConsumeKind(lexer.KindAt) })
	b.NotAdd()
	b.Property("name", func(*ast.NodeInstance) any {
		return ps.expectKind(lexer.KindIdentifier, "Expected identifier").Value
	})
	b.Finally(func(ni *ast.NodeInstance) {
		name := ast.GetProperty[string](ni, "name")
		ps.expectKind(lexer.KindOpenCurly, "Expected '{'")
		var captured []*ast.NodeInstance
		found := ps.p.DoUntilFind(kindTok(lexer.KindCloseCurly), func() {
			node := ps.parseSingle()
			if node.Add {
				captured = append(captured, node)
			}
		})
		if !found {
			ps.fail(errors.MissingToken, "Expected '}'")
		}
		if _, exists := ps.aliases[name]; exists {
			ps.fail(errors.RedefinitionError, "Alias already exists")
		}
		ps.aliases[name] = captured
	})
	ps.registry.Register(b)
}
