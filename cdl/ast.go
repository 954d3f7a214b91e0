package cdl

// File is a parsed compilation unit: an ordered sequence of top-level
// declarations. Order is load-bearing; the IR generator emits entries
// in declaration order.
type File struct {
	Nodes []Node
}

// Node is a top-level declaration.
type Node interface {
	Pos() Pos
}

// ModuleDecl is a `module dotted.path` declaration.
type ModuleDecl struct {
	Name string
	At   Pos
}

// ImportStmt is an `import path` or `import path.{a, b}` statement.
type ImportStmt struct {
	Path    string
	Symbols []string
	At      Pos
}

// ConstraintDef is a `constraint name [inherits other] { ... }` block.
type ConstraintDef struct {
	Name       string
	Inherits   string // empty when the constraint has no parent
	InheritsAt Pos
	Properties []Property
	At         Pos
}

// PublicConst is a `pub const name = value` declaration.
type PublicConst struct {
	Name  string
	Value Value
	At    Pos
}

// GenerateStmt is a `generate target { ... }` form. Its body reuses
// the property grammar; the generator reads `signature` and
// `constraints` from it.
type GenerateStmt struct {
	Target     string
	Properties []Property
	At         Pos
}

// CommentNode is a top-level `--` comment, preserved in order.
type CommentNode struct {
	Text string
	At   Pos
}

func (n *ModuleDecl) Pos() Pos    { return n.At }
func (n *ImportStmt) Pos() Pos    { return n.At }
func (n *ConstraintDef) Pos() Pos { return n.At }
func (n *PublicConst) Pos() Pos   { return n.At }
func (n *GenerateStmt) Pos() Pos  { return n.At }
func (n *CommentNode) Pos() Pos   { return n.At }

// Property is one `key: value` pair inside a block.
type Property struct {
	Key string
	Val Value
	At  Pos
}

// Value is a property value: string, number, boolean, reference,
// array, object, tagged variant, or opaque query block.
type Value interface {
	valueNode()
}

// StringValue is a string literal. Multiline is true for """...""".
type StringValue struct {
	Val       string
	Multiline bool
}

// NumberValue is a numeric literal.
type NumberValue struct {
	Val float64
}

// BoolValue is a true/false literal.
type BoolValue struct {
	Val bool
}

// RefValue is a bare identifier naming a constraint.
type RefValue struct {
	Name string
	At   Pos
}

// ArrayValue is an ordered list of values.
type ArrayValue struct {
	Items []Value
}

// ObjectValue is a nested, order-preserving property list.
type ObjectValue struct {
	Props []Property
}

// VariantValue is a tagged value such as .ManualPolicy or .Type({...}).
// Payload is nil when the tag carries none.
type VariantValue struct {
	Tag     string
	Payload Value
}

// QueryValue is an opaque, language-tagged foreign pattern block,
// captured verbatim and never interpreted.
type QueryValue struct {
	Language string
	Body     string
}

func (*StringValue) valueNode()  {}
func (*NumberValue) valueNode()  {}
func (*BoolValue) valueNode()    {}
func (*RefValue) valueNode()     {}
func (*ArrayValue) valueNode()   {}
func (*ObjectValue) valueNode()  {}
func (*VariantValue) valueNode() {}
func (*QueryValue) valueNode()   {}

// FindProperty returns the first property with the given key, or false.
func FindProperty(props []Property, key string) (Value, bool) {
	for _, p := range props {
		if p.Key == key {
			return p.Val, true
		}
	}
	return nil, false
}
