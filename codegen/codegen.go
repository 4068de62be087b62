// Package codegen turns a parsed lumen program into textual x86-64
// assembly: a four-section unit (bss, data, labels, text) built the way
// the occam2go teacher's Generator accumulates output into named
// strings.Builder fields, generalized here from one Go-source builder to
// four assembly-section builders. Instruction selection itself is not
// spec'd; this generator evaluates expressions onto a single accumulator
// register (rax, viewed at the expression's own width) with a push/pop
// operand stack for nested binary operators, and compiles every
// user-declared operation and cast body as an ordinary callable routine.
package codegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/lumenlang/lumen/ast"
	"github.com/lumenlang/lumen/diagnostics"
	"github.com/lumenlang/lumen/errors"
)

// assemblyUnit accumulates the four output sections independently, the
// way Generator.hpp keeps sec_bss/sec_data/labels/sec_text as separate
// stringstreams rather than writing one interleaved buffer. Each builder
// is seeded with its own NASM section directive up front, the way
// Generator's constructor preloads every stringstream with its header
// (`sec_bss.str("section .bss\n")` and so on) before anything else is
// ever written to it.
type assemblyUnit struct {
	bss    strings.Builder
	data   strings.Builder
	labels strings.Builder
	text   strings.Builder
}

func newAssemblyUnit() *assemblyUnit {
	var u assemblyUnit
	u.bss.WriteString("section .bss\n")
	u.data.WriteString("section .data\n")
	u.labels.WriteString("section .text\n")
	u.text.WriteString("section .text\n")
	return &u
}

// String concatenates the sections in spec.md §4.4's fixed order:
// `global main`, .bss, .data, labels, code.
func (u *assemblyUnit) String() string {
	var out strings.Builder
	out.WriteString("global main\n\n")
	out.WriteString(u.bss.String())
	out.WriteString("\n\n")
	out.WriteString(u.data.String())
	out.WriteString("\n\n")
	out.WriteString(u.labels.String())
	out.WriteString("\n\n")
	out.WriteString(u.text.String())
	return out.String()
}

// localSlot is one stack-resident local: its byte offset below rbp and
// its declared type (for width and SizeOf).
type localSlot struct {
	offset int64
	typ    *ast.Type
}

// frame is one function's (or operation/cast body's) stack layout.
type frame struct {
	locals map[string]localSlot
	size   int64
}

// Generator compiles a parsed lumen program into assembly text. It is
// constructed with the flat top-level node list plus the parser's
// read-only function, operator, cast, autocast and declared-type tables
// and a diagnostics sink.
type Generator struct {
	asm *assemblyUnit

	declaredTypes *ast.DeclaredTypes
	diag          diagnostics.Sink

	globals map[string]*ast.Type

	opLabels   map[*ast.Operation]string
	castLabels map[*ast.Cast]string
	funcLabels map[*ast.NodeInstance]string

	labelCounter  int
	stringCounter int

	// per-function state, reset by each genFunction-family call
	fr       *frame
	retLabel string
	isMain   bool
}

// New creates a Generator over a fully parsed program. nodes is the flat
// top-level statement list (ParseProgram's result); the remaining
// arguments are the parser's accumulated declaration tables.
func New(
	nodes []*ast.NodeInstance,
	functions []*ast.NodeInstance,
	operators []ast.Operation,
	casts []ast.Cast,
	autocasts []ast.Cast,
	declaredTypes *ast.DeclaredTypes,
	diag diagnostics.Sink,
) *Generator {
	g := &Generator{
		asm:           newAssemblyUnit(),
		declaredTypes: declaredTypes,
		diag:          diag,
		globals:       map[string]*ast.Type{},
		opLabels:      map[*ast.Operation]string{},
		castLabels:    map[*ast.Cast]string{},
		funcLabels:    map[*ast.NodeInstance]string{},
	}
	g.assignLabels(functions, operators, casts, autocasts)
	g.genProgram(nodes, functions, operators, casts, autocasts)
	return g
}

// Output returns the finished assembly text.
func (g *Generator) Output() string { return g.asm.String() }

// --- label assignment -------------------------------------------------------

// assignLabels names every callable entry point up front and records it
// in the dedicated labels section as a comment line (label -> what it
// compiles to) ahead of the instructions themselves, which land in the
// code section as emitRoutine walks each body.
func (g *Generator) assignLabels(functions []*ast.NodeInstance, operators []ast.Operation, casts, autocasts []ast.Cast) {
	for _, fn := range functions {
		if ast.GetProperty[*ast.NodeInstance](fn, "body") == nil {
			continue // forward declaration, nothing to emit or call
		}
		name := ast.GetProperty[string](fn, "name")
		params := ast.GetProperty[[]ast.Variable](fn, "parameters")
		if name == "main" && len(params) == 0 {
			g.funcLabels[fn] = "main"
			fmt.Fprintf(&g.asm.labels, "; main: func main()\n")
			continue
		}
		label := fmt.Sprintf("F_%s_%s", name, paramTag(params))
		g.funcLabels[fn] = label
		fmt.Fprintf(&g.asm.labels, "; %s: func %s(%s)\n", label, name, paramTag(params))
	}
	for i := range operators {
		op := &operators[i]
		g.labelCounter++
		label := fmt.Sprintf("OP_%s_%d", symbolTag(op.Symbols), g.labelCounter)
		g.opLabels[op] = label
		fmt.Fprintf(&g.asm.labels, "; %s: operation %s\n", label, op.Symbols)
	}
	for i := range casts {
		c := &casts[i]
		g.labelCounter++
		label := fmt.Sprintf("CAST_%d", g.labelCounter)
		g.castLabels[c] = label
		fmt.Fprintf(&g.asm.labels, "; %s: cast %s\n", label, typeTag(c.To))
	}
	for i := range autocasts {
		c := &autocasts[i]
		g.labelCounter++
		label := fmt.Sprintf("AUTOCAST_%d", g.labelCounter)
		g.castLabels[c] = label
		fmt.Fprintf(&g.asm.labels, "; %s: autocast %s\n", label, typeTag(c.To))
	}
}

func paramTag(params []ast.Variable) string {
	if len(params) == 0 {
		return "void"
	}
	tags := make([]string, len(params))
	for i, p := range params {
		tags[i] = typeTag(p.Type)
	}
	return strings.Join(tags, "_")
}

func typeTag(t *ast.Type) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case ast.KindPointer:
		return "ptr" + typeTag(t.Pointee)
	case ast.KindStruct, ast.KindUnion, ast.KindAlias:
		return t.Identifier
	default:
		return fmt.Sprintf("k%d", int(t.Kind))
	}
}

var symbolNames = map[rune]string{
	'+': "plus", '-': "minus", '*': "star", '/': "slash", '%': "pct",
	'<': "lt", '>': "gt", '=': "eq", '!': "bang", '&': "amp",
	'|': "pipe", '^': "caret", '~': "tilde", '?': "q",
}

func symbolTag(symbols string) string {
	var sb strings.Builder
	for _, r := range symbols {
		if name, ok := symbolNames[r]; ok {
			sb.WriteString(name)
		} else {
			fmt.Fprintf(&sb, "x%x", r)
		}
	}
	return sb.String()
}

// --- top-level declarations -------------------------------------------------

func (g *Generator) genProgram(nodes []*ast.NodeInstance, functions []*ast.NodeInstance, operators []ast.Operation, casts, autocasts []ast.Cast) {
	for _, n := range nodes {
		if n.ID == ast.NodeVarDecl {
			g.declareGlobal(n)
		}
	}
	for _, n := range nodes {
		switch n.ID {
		case ast.NodeVarDecl, ast.NodeTypeDecl, ast.NodePublicField, ast.NodeImport, ast.NodeNamesp, ast.NodeFuncDecl:
			// func_decl bodies are emitted from the functions table below,
			// in declaration order, not interleaved with other top-level
			// statements; the rest need no codegen action of their own.
		case ast.NodeAsmCode:
			g.asm.text.WriteString(ast.GetProperty[string](n, "code"))
			g.asm.text.WriteString("\n")
		default:
			g.genTopLevelInit(n)
		}
	}
	for _, fn := range functions {
		g.genFunction(fn)
	}
	for i := range operators {
		op := &operators[i]
		if op.Body == nil {
			continue
		}
		g.genCallable(g.opLabels[op], op.Params, op.R, op.Body)
	}
	for i := range casts {
		c := &casts[i]
		g.genCallable(g.castLabels[c], []ast.Variable{c.Param}, c.To, c.Body)
	}
	for i := range autocasts {
		c := &autocasts[i]
		g.genCallable(g.castLabels[c], []ast.Variable{c.Param}, c.To, c.Body)
	}
}

// genTopLevelInit handles a top-level statement that isn't a declaration
// (e.g. a replayed alias_use body spliced into ps.output, or a bare
// var_set against a global) by writing its code straight into the code
// section with a fresh, empty frame and its own return label. The code is
// not wrapped in a routine and main does not call it.
func (g *Generator) genTopLevelInit(n *ast.NodeInstance) {
	g.fr = &frame{locals: map[string]localSlot{}}
	g.retLabel = g.newLabel("init_ret")
	g.genStmt(n)
	g.asm.text.WriteString(g.retLabel + ":\n")
}

func (g *Generator) declareGlobal(n *ast.NodeInstance) {
	name := ast.GetProperty[string](n, "name")
	t := ast.GetProperty[*ast.Type](n, "type")
	g.globals[name] = t
	size := SizeOf(t, g.declaredTypes)
	fmt.Fprintf(&g.asm.bss, "V_%s: resb %d\n", name, size)
	value := ast.GetProperty[*ast.Expression](n, "value")
	if value == nil {
		g.diag.Warn(fmt.Sprintf("global %q has no initializer, defaulting to zero", name))
		return
	}
	g.fr = &frame{locals: map[string]localSlot{}}
	g.genExpr(value)
	g.storeGlobal(name, t)
}

// --- functions / operation & cast bodies ------------------------------------

func (g *Generator) genFunction(fn *ast.NodeInstance) {
	label, ok := g.funcLabels[fn]
	if !ok {
		return // forward declaration only
	}
	params := ast.GetProperty[[]ast.Variable](fn, "parameters")
	retType := ast.GetProperty[*ast.Type](fn, "returnType")
	body := ast.GetProperty[*ast.NodeInstance](fn, "body")
	g.isMain = label == "main"
	g.emitRoutine(label, params, retType, body)
	g.isMain = false
}

func (g *Generator) genCallable(label string, params []ast.Variable, retType *ast.Type, body *ast.NodeInstance) {
	g.isMain = false
	g.emitRoutine(label, params, retType, body)
}

// argRegs lists the System V AMD64 integer/pointer argument registers in
// order; lumen has no floating-point register class (floats/doubles are
// passed and held in general registers as raw bit patterns), so this is
// the only argument-passing table the generator needs.
var argRegs = [...]Register{RDI, RSI, RDX, RCX, R8, R9}

func (g *Generator) emitRoutine(label string, params []ast.Variable, retType *ast.Type, body *ast.NodeInstance) {
	g.fr = g.buildFrame(params, body)
	g.retLabel = g.newLabel("ret")

	fmt.Fprintf(&g.asm.text, "%s:\n", label)
	g.emit("push rbp")
	g.emit("mov rbp, rsp")
	if g.fr.size > 0 {
		g.emit(fmt.Sprintf("sub rsp, %d", alignTo16(g.fr.size)))
	}
	for i, p := range params {
		if i >= len(argRegs) {
			panic(errors.New(errors.SizeError, "Too many parameters for register-based calling convention", 0, p.Name))
		}
		slot := g.fr.locals[p.Name]
		width := SizeOf(p.Type, g.declaredTypes)
		g.emit(fmt.Sprintf("mov [rbp-%d], %s", slot.offset, argRegs[i].ForWidth(width)))
	}

	g.genScope(body)

	fmt.Fprintf(&g.asm.text, "%s:\n", g.retLabel)
	if g.isMain {
		g.emit("mov rax, 60")
		g.emit("xor rdi, rdi")
		g.emit("syscall")
	} else {
		g.emit("mov rsp, rbp")
		g.emit("pop rbp")
		g.emit("ret")
	}
}

// buildFrame assigns every parameter and every local variable declared
// anywhere in body (including nested scopes — lumen reuses the parser's
// own scoping rules for name visibility, but the generator does not
// reclaim slots across nested scopes, trading stack space for a single
// static frame layout pass) a fixed, non-overlapping offset below rbp.
func (g *Generator) buildFrame(params []ast.Variable, body *ast.NodeInstance) *frame {
	fr := &frame{locals: map[string]localSlot{}}
	for _, p := range params {
		fr.size += SizeOf(p.Type, g.declaredTypes)
		fr.locals[p.Name] = localSlot{offset: fr.size, typ: p.Type}
	}
	if body != nil {
		g.collectLocals(body, fr)
	}
	return fr
}

func (g *Generator) collectLocals(n *ast.NodeInstance, fr *frame) {
	if n == nil {
		return
	}
	switch n.ID {
	case ast.NodeScope:
		for _, stmt := range ast.GetProperty[[]*ast.NodeInstance](n, "content") {
			g.collectLocals(stmt, fr)
		}
	case ast.NodeVarDecl:
		name := ast.GetProperty[string](n, "name")
		t := ast.GetProperty[*ast.Type](n, "type")
		fr.size += SizeOf(t, g.declaredTypes)
		fr.locals[name] = localSlot{offset: fr.size, typ: t}
	case ast.NodeIfStmt:
		g.collectLocals(ast.GetProperty[*ast.NodeInstance](n, "body"), fr)
		if elseBody := ast.GetProperty[*ast.NodeInstance](n, "else"); elseBody != nil {
			g.collectLocals(elseBody, fr)
		}
	case ast.NodeWhileStmt, ast.NodeDoWhileStmt:
		g.collectLocals(ast.GetProperty[*ast.NodeInstance](n, "body"), fr)
	case ast.NodeForStmt:
		v := ast.GetProperty[ast.Variable](n, "variable")
		fr.size += SizeOf(v.Type, g.declaredTypes)
		fr.locals[v.Name] = localSlot{offset: fr.size, typ: v.Type}
		g.collectLocals(ast.GetProperty[*ast.NodeInstance](n, "incr"), fr)
		g.collectLocals(ast.GetProperty[*ast.NodeInstance](n, "body"), fr)
	}
}

func alignTo16(n int64) int64 {
	if rem := n % 16; rem != 0 {
		return n + (16 - rem)
	}
	return n
}

// --- statements --------------------------------------------------------------

func (g *Generator) genScope(n *ast.NodeInstance) {
	for _, stmt := range ast.GetProperty[[]*ast.NodeInstance](n, "content") {
		g.genStmt(stmt)
	}
}

func (g *Generator) genStmt(n *ast.NodeInstance) {
	switch n.ID {
	case ast.NodeScope:
		g.genScope(n)
	case ast.NodeVarDecl:
		name := ast.GetProperty[string](n, "name")
		if value := ast.GetProperty[*ast.Expression](n, "value"); value != nil {
			g.genExpr(value)
			g.storeLocal(name)
		}
	case ast.NodeVarSet:
		name := ast.GetProperty[string](n, "name")
		value := ast.GetProperty[*ast.Expression](n, "value")
		g.genExpr(value)
		if slot, ok := g.fr.locals[name]; ok {
			g.emit(fmt.Sprintf("mov [rbp-%d], %s", slot.offset, RAX.ForWidth(SizeOf(slot.typ, g.declaredTypes))))
		} else {
			g.storeGlobal(name, g.globals[name])
		}
	case ast.NodeReturnStmt:
		if value := ast.GetProperty[*ast.Expression](n, "value"); value != nil {
			g.genExpr(value)
		}
		g.emit("jmp " + g.retLabel)
	case ast.NodeAsmCode:
		g.asm.text.WriteString(ast.GetProperty[string](n, "code"))
		g.asm.text.WriteString("\n")
	case ast.NodeIfStmt:
		g.genIf(n)
	case ast.NodeWhileStmt:
		g.genWhile(n)
	case ast.NodeDoWhileStmt:
		g.genDoWhile(n)
	case ast.NodeForStmt:
		g.genFor(n)
	default:
		// operation_decl/cast_decl/type_decl/alias_decl carry no runtime
		// action at their point of use inside a body; func_decl cannot
		// appear nested (the parser rejects it).
	}
}

func (g *Generator) genIf(n *ast.NodeInstance) {
	elseLabel := g.newLabel("else")
	endLabel := g.newLabel("endif")
	g.genExpr(ast.GetProperty[*ast.Expression](n, "expr"))
	g.emit("cmp al, 0")
	g.emit("je " + elseLabel)
	g.genStmt(ast.GetProperty[*ast.NodeInstance](n, "body"))
	g.emit("jmp " + endLabel)
	g.label(elseLabel)
	if elseBody := ast.GetProperty[*ast.NodeInstance](n, "else"); elseBody != nil {
		g.genStmt(elseBody)
	}
	g.label(endLabel)
}

func (g *Generator) genWhile(n *ast.NodeInstance) {
	startLabel := g.newLabel("while")
	endLabel := g.newLabel("endwhile")
	g.label(startLabel)
	g.genExpr(ast.GetProperty[*ast.Expression](n, "expr"))
	g.emit("cmp al, 0")
	g.emit("je " + endLabel)
	g.genStmt(ast.GetProperty[*ast.NodeInstance](n, "body"))
	g.emit("jmp " + startLabel)
	g.label(endLabel)
}

func (g *Generator) genDoWhile(n *ast.NodeInstance) {
	startLabel := g.newLabel("dowhile")
	g.label(startLabel)
	g.genStmt(ast.GetProperty[*ast.NodeInstance](n, "body"))
	g.genExpr(ast.GetProperty[*ast.Expression](n, "expr"))
	g.emit("cmp al, 0")
	g.emit("jne " + startLabel)
}

func (g *Generator) genFor(n *ast.NodeInstance) {
	startLabel := g.newLabel("for")
	endLabel := g.newLabel("endfor")
	g.label(startLabel)
	g.genExpr(ast.GetProperty[*ast.Expression](n, "expr"))
	g.emit("cmp al, 0")
	g.emit("je " + endLabel)
	g.genStmt(ast.GetProperty[*ast.NodeInstance](n, "body"))
	g.genStmt(ast.GetProperty[*ast.NodeInstance](n, "incr"))
	g.emit("jmp " + startLabel)
	g.label(endLabel)
}

// --- expressions ---------------------------------------------------------

// genExpr emits code that leaves e's value in the accumulator register,
// rax viewed at e's own width.
func (g *Generator) genExpr(e *ast.Expression) {
	switch e.Kind {
	case ast.ExprLiteral:
		g.genLiteral(e.Literal)
	case ast.ExprVariable:
		g.loadVariable(e.Variable.Name, e.Variable.Type)
	case ast.ExprFuncCall:
		g.genCall(g.funcCallLabel(e.FuncCall.Callee, e.FuncCall.Args, e.ReturnType), e.FuncCall.Args)
	case ast.ExprInterfaceRef:
		label := g.funcLabels[e.InterfaceRef]
		g.emit("lea rax, [rel " + label + "]")
	case ast.ExprReference:
		g.genAddressOf(e.Inner)
	case ast.ExprDereference:
		g.genExpr(e.Inner)
		width := SizeOf(e.ReturnType, g.declaredTypes)
		g.emit(fmt.Sprintf("mov %s, [rax]", RAX.ForWidth(width)))
	case ast.ExprSubscript:
		g.genExpr(e.Subscript.Base)
		g.emit("push rax")
		g.genExpr(e.Subscript.Index)
		g.emit("mov rbx, rax")
		g.emit("pop rax")
		elemSize := SizeOf(e.ReturnType, g.declaredTypes)
		g.emit(fmt.Sprintf("imul rbx, rbx, %d", elemSize))
		g.emit("add rax, rbx")
		g.emit(fmt.Sprintf("mov %s, [rax]", RAX.ForWidth(elemSize)))
	case ast.ExprDotNotation:
		g.genAddressOf(e.DotNotation.Base)
		offset := g.fieldOffset(g.baseStructType(e.DotNotation.Base), e.DotNotation.After)
		if offset != 0 {
			g.emit(fmt.Sprintf("add rax, %d", offset))
		}
		width := SizeOf(e.ReturnType, g.declaredTypes)
		g.emit(fmt.Sprintf("mov %s, [rax]", RAX.ForWidth(width)))
	case ast.ExprCast:
		g.genExpr(e.Cast.Inner)
		g.genCall(g.castLabels[e.Cast.Cast], nil)
	case ast.ExprCustom:
		g.genCustom(e)
	default:
		panic(errors.New(errors.InternalError, "codegen: unhandled expression kind", 0, ""))
	}
}

func (g *Generator) genCustom(e *ast.Expression) {
	label := g.opLabels[e.Custom.Op]
	args := []*ast.Expression{e.Custom.A}
	if e.Custom.B != nil {
		args = append(args, e.Custom.B)
	}
	g.genCall(label, args)
}

// genCall evaluates args left to right, spills each into its calling
// registers, and calls label; the cast call variant passes the single
// already-evaluated accumulator value as argument 0 (args is nil) since
// ExprCast's inner value is computed just before the call.
func (g *Generator) genCall(label string, args []*ast.Expression) {
	if args == nil {
		g.emit("mov rdi, rax")
		g.emit("call " + label)
		return
	}
	for _, a := range args {
		g.genExpr(a)
		g.emit("push rax")
	}
	for i := len(args) - 1; i >= 0; i-- {
		if i >= len(argRegs) {
			panic(errors.New(errors.SizeError, "Too many call arguments for register-based calling convention", 0, label))
		}
		g.emit("pop " + argRegs[i].To64().String())
	}
	g.emit("call " + label)
}

func (g *Generator) genAddressOf(e *ast.Expression) {
	switch e.Kind {
	case ast.ExprVariable:
		g.loadVariableAddress(e.Variable.Name)
	case ast.ExprDereference:
		g.genExpr(e.Inner)
	default:
		g.genExpr(e)
	}
}

func (g *Generator) baseStructType(base *ast.Expression) *ast.Type {
	t := base.ReturnType
	if t != nil && t.Kind == ast.KindPointer {
		return t.Pointee
	}
	return t
}

func (g *Generator) fieldOffset(structType *ast.Type, field string) int64 {
	if structType == nil {
		panic(errors.New(errors.TypeError, "Cannot access field of incomplete type", 0, field))
	}
	var offset int64
	for _, f := range structType.Fields {
		if f.Name == field {
			return offset
		}
		offset += SizeOf(f.Type, g.declaredTypes)
	}
	panic(errors.New(errors.TypeError, "No such field: "+field, 0, field))
}

func (g *Generator) genLiteral(l *ast.Literal) {
	switch l.Kind {
	case ast.LiteralInt:
		g.emit(fmt.Sprintf("mov eax, %d", int32(l.Int)))
	case ast.LiteralLong:
		g.emit(fmt.Sprintf("mov rax, %d", l.Int))
	case ast.LiteralFloat:
		g.emit(fmt.Sprintf("mov eax, %d", float32Bits(l.Float)))
	case ast.LiteralDouble:
		g.emit(fmt.Sprintf("mov rax, %d", float64Bits(l.Float)))
	case ast.LiteralChar:
		g.emit(fmt.Sprintf("mov al, %d", l.Char))
	case ast.LiteralBoolean:
		v := 0
		if l.Bool {
			v = 1
		}
		g.emit(fmt.Sprintf("mov al, %d", v))
	case ast.LiteralString:
		label := g.internString(l.Str)
		g.emit("lea rax, [rel " + label + "]")
	default:
		g.emit("xor rax, rax")
	}
}

func (g *Generator) internString(s string) string {
	g.stringCounter++
	label := fmt.Sprintf("S_%d", g.stringCounter)
	fmt.Fprintf(&g.asm.data, "%s: db %s, 0\n", label, nasmByteList(s))
	return label
}

func nasmByteList(s string) string {
	if s == "" {
		return "0"
	}
	parts := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		parts[i] = fmt.Sprintf("%d", s[i])
	}
	return strings.Join(parts, ", ")
}

func float32Bits(f float64) uint32 { return math.Float32bits(float32(f)) }

func float64Bits(f float64) uint64 { return math.Float64bits(f) }

// --- variable access ---------------------------------------------------------

func (g *Generator) loadVariable(name string, t *ast.Type) {
	if slot, ok := g.fr.locals[name]; ok {
		width := SizeOf(slot.typ, g.declaredTypes)
		g.emit(fmt.Sprintf("mov %s, [rbp-%d]", RAX.ForWidth(width), slot.offset))
		return
	}
	width := SizeOf(t, g.declaredTypes)
	g.emit(fmt.Sprintf("mov %s, [rel V_%s]", RAX.ForWidth(width), name))
}

func (g *Generator) loadVariableAddress(name string) {
	if slot, ok := g.fr.locals[name]; ok {
		g.emit(fmt.Sprintf("lea rax, [rbp-%d]", slot.offset))
		return
	}
	g.emit("lea rax, [rel V_" + name + "]")
}

func (g *Generator) storeLocal(name string) {
	slot := g.fr.locals[name]
	width := SizeOf(slot.typ, g.declaredTypes)
	g.emit(fmt.Sprintf("mov [rbp-%d], %s", slot.offset, RAX.ForWidth(width)))
}

func (g *Generator) storeGlobal(name string, t *ast.Type) {
	width := SizeOf(t, g.declaredTypes)
	g.emit(fmt.Sprintf("mov [rel V_%s], %s", name, RAX.ForWidth(width)))
}

// funcCallLabel resolves a call's callee by the exact candidate the
// parser already picked: args carries the already-typed argument
// expressions, so the generator re-derives the same parameter-type tuple
// and return type the parser used for overload resolution and looks up
// that function's assigned label. This mirrors parseFuncCall's own
// matching rather than re-implementing resolution — codegen trusts the
// parser's choice and only needs to name it.
func (g *Generator) funcCallLabel(callee string, args []*ast.Expression, ret *ast.Type) string {
	for fn, label := range g.funcLabels {
		if ast.GetProperty[string](fn, "name") != callee {
			continue
		}
		if !ast.Equal(ast.GetProperty[*ast.Type](fn, "returnType"), ret) {
			continue
		}
		params := ast.GetProperty[[]ast.Variable](fn, "parameters")
		if len(params) != len(args) {
			continue
		}
		match := true
		for i, p := range params {
			if !ast.Equal(p.Type, args[i].ReturnType) {
				match = false
				break
			}
		}
		if match {
			return label
		}
	}
	panic(errors.New(errors.InternalError, "codegen: no function label for call to "+callee, 0, callee))
}

// --- small helpers -------------------------------------------------------

func (g *Generator) emit(instr string) {
	g.asm.text.WriteString("  ")
	g.asm.text.WriteString(instr)
	g.asm.text.WriteString("\n")
}

func (g *Generator) label(name string) {
	fmt.Fprintf(&g.asm.text, "%s:\n", name)
}

func (g *Generator) newLabel(prefix string) string {
	g.labelCounter++
	return fmt.Sprintf("L_%s_%d", prefix, g.labelCounter)
}
