package ast

import "github.com/lumenlang/lumen/errors"

// NodeId tags the statement kind a NodeInstance represents.
type NodeId int

const (
	NodeScope NodeId = iota
	NodeFuncDecl
	NodeVarDecl
	NodeTypeDecl
	NodePublicField
	NodeImport
	NodeNamesp
	NodeDefer
	NodeVarSet
	NodeReturnStmt
	NodeAsmCode
	NodeOperationDecl
	NodeCastDecl
	NodeIfStmt
	NodeWhileStmt
	NodeDoWhileStmt
	NodeForStmt
	NodeAliasDecl
	NodeAliasUse
)

var nodeIdNames = map[NodeId]string{
	NodeScope: "scope", NodeFuncDecl: "func_decl", NodeVarDecl: "var_decl",
	NodeTypeDecl: "type_decl", NodePublicField: "public_field", NodeImport: "import",
	NodeNamesp: "namesp", NodeDefer: "defer", NodeVarSet: "var_set",
	NodeReturnStmt: "return_stmt", NodeAsmCode: "asm_code", NodeOperationDecl: "operation_decl",
	NodeCastDecl: "cast_decl", NodeIfStmt: "if_stmt", NodeWhileStmt: "while_stmt",
	NodeDoWhileStmt: "do_while_stmt", NodeForStmt: "for_stmt", NodeAliasDecl: "alias_decl",
	NodeAliasUse: "alias_use",
}

func (id NodeId) String() string {
	if s, ok := nodeIdNames[id]; ok {
		return s
	}
	return "unknown"
}

// Property is a single named, lazily-materialized slot on a NodeInstance.
// Its criteria procedure runs exactly once, during Build; the value is
// readable only afterward.
type Property struct {
	name     string
	criteria func(*NodeInstance) any
	ran      bool
	value    any
}

func (p *Property) invoke(ni *NodeInstance) {
	if p.ran {
		return
	}
	p.value = p.criteria(ni)
	p.ran = true
}

// NodeInstance is a built statement node: an id, an add flag controlling
// whether it is emitted into the enclosing statement list, and a
// heterogeneous named property bag.
type NodeInstance struct {
	ID     NodeId
	Add    bool
	Render func(*NodeInstance) string

	props map[string]*Property
	order []string
}

func newNodeInstance(id NodeId) *NodeInstance {
	return &NodeInstance{ID: id, Add: true, props: map[string]*Property{}}
}

func (ni *NodeInstance) declare(name string, criteria func(*NodeInstance) any) *Property {
	p := &Property{name: name, criteria: criteria}
	ni.props[name] = p
	ni.order = append(ni.order, name)
	return p
}

// HasProperty reports whether name was declared on this instance (whether
// or not it has been invoked yet).
func (ni *NodeInstance) HasProperty(name string) bool {
	_, ok := ni.props[name]
	return ok
}

// GetProperty fetches a previously-invoked property by name, type-asserted
// to T. Accessing an undeclared or not-yet-invoked property, or one of the
// wrong type, is an Internal Error — a programming error in a builder, not
// a user-facing one.
func GetProperty[T any](ni *NodeInstance, name string) T {
	p, ok := ni.props[name]
	if !ok || !p.ran {
		panic(errors.New(errors.InternalError, "property not found: "+name, 0, ""))
	}
	v, ok := p.value.(T)
	if !ok {
		panic(errors.New(errors.InternalError, "property type mismatch: "+name, 0, ""))
	}
	return v
}

// PropertyRecipe is a named property to run once against a freshly built
// NodeInstance, in declaration order.
type PropertyRecipe struct {
	Name string
	Fn   func(*NodeInstance) any
}

// Builder is a node builder: a predicate deciding whether the current
// parser position begins this node, an ordered list of named property
// recipes, a chain of anonymous syntactic requirements, a finally hook,
// a render procedure, and an add flag.
type Builder struct {
	ID           NodeId
	Predicate    func() bool
	Properties   []PropertyRecipe
	Requirements []func(*NodeInstance)
	FinallyFn    func(*NodeInstance)
	RenderFn     func(*NodeInstance) string
	AddFlag      bool

	steps []bool // declaration order: true for a property, false for a requirement
}

// NewBuilder creates a Builder for id, added to the output list by default.
func NewBuilder(id NodeId, predicate func() bool) *Builder {
	return &Builder{ID: id, Predicate: predicate, AddFlag: true}
}

// Property appends a named property recipe.
func (b *Builder) Property(name string, fn func(*NodeInstance) any) *Builder {
	b.Properties = append(b.Properties, PropertyRecipe{Name: name, Fn: fn})
	b.steps = append(b.steps, true)
	return b
}

// Require appends an anonymous syntactic requirement (e.g. "consume a ';'").
func (b *Builder) Require(fn func(*NodeInstance)) *Builder {
	b.Requirements = append(b.Requirements, fn)
	b.steps = append(b.steps, false)
	return b
}

// Finally sets the side-effecting hook run after all properties and
// requirements have been processed.
func (b *Builder) Finally(fn func(*NodeInstance)) *Builder {
	b.FinallyFn = fn
	return b
}

// OnRender sets the debug-rendering procedure.
func (b *Builder) OnRender(fn func(*NodeInstance) string) *Builder {
	b.RenderFn = fn
	return b
}

// NotAdd marks built instances as not emitted into the output list (e.g.
// namespace declarations, whose body statements are spliced in instead).
func (b *Builder) NotAdd() *Builder {
	b.AddFlag = false
	return b
}

// Build runs this builder's recipes and requirements in declaration order
// against a fresh NodeInstance.
func (b *Builder) Build() *NodeInstance {
	ni := newNodeInstance(b.ID)
	ni.Add = b.AddFlag
	ni.Render = b.RenderFn

	pi, ri := 0, 0
	for _, isProp := range b.steps {
		if isProp {
			rec := b.Properties[pi]
			pi++
			ni.declare(rec.Name, rec.Fn).invoke(ni)
			continue
		}
		b.Requirements[ri](ni)
		ri++
	}
	if b.FinallyFn != nil {
		b.FinallyFn(ni)
	}
	return ni
}

// Registry holds builders in registration order, the sole parser dispatch
// mechanism: no grammar table exists alongside it.
type Registry struct {
	builders []*Builder
}

// NewRegistry creates an empty builder registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a builder, fixing its parse priority as the order
// builders were registered in.
func (r *Registry) Register(b *Builder) {
	r.builders = append(r.builders, b)
}

// ParseSingle scans builders in registration order and builds the first
// whose predicate returns true. Returns nil if none match.
func (r *Registry) ParseSingle() *NodeInstance {
	for _, b := range r.builders {
		if b.Predicate() {
			return b.Build()
		}
	}
	return nil
}
