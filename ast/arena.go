package ast

// Arena tracks every Type, Expression, and NodeInstance allocated for one
// compilation unit so they can be released together. Go has no manual
// free; Release simply drops the arena's own references so the GC can
// reclaim anything the rest of the compiler no longer reaches — this is
// bookkeeping, not a real allocator.
type Arena struct {
	types []*Type
	exprs []*Expression
	nodes []*NodeInstance
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// NewType allocates and tracks a Type.
func (a *Arena) NewType(t Type) *Type {
	p := &t
	a.types = append(a.types, p)
	return p
}

// NewExpression allocates and tracks an Expression.
func (a *Arena) NewExpression(e Expression) *Expression {
	p := &e
	a.exprs = append(a.exprs, p)
	return p
}

// NewNode allocates and tracks a NodeInstance via the given builder.
func (a *Arena) NewNode(b *Builder) *NodeInstance {
	n := b.Build()
	a.nodes = append(a.nodes, n)
	return n
}

// Types returns every Type the arena has allocated.
func (a *Arena) Types() []*Type { return a.types }

// Expressions returns every Expression the arena has allocated.
func (a *Arena) Expressions() []*Expression { return a.exprs }

// Nodes returns every NodeInstance the arena has allocated.
func (a *Arena) Nodes() []*NodeInstance { return a.nodes }

// Release drops the arena's references. Call once the compilation unit
// that owns it is done (code generated, diagnostics flushed).
func (a *Arena) Release() {
	a.types = nil
	a.exprs = nil
	a.nodes = nil
}
