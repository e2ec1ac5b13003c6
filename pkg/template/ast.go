package template

// Node is any AST node in a parsed template.
type Node interface {
	node()
}

// Document is the root node produced by Parse.
type Document struct {
	Nodes []Node
}

func (*Document) node() {}

// TextNode represents literal text between tags.
type TextNode struct {
	Text string
}

func (*TextNode) node() {}

// VariableNode represents a variable output expression: {{ expr }}.
// Expr is a dot-path, optionally followed by a filter pipeline.
type VariableNode struct {
	Expr string
}

func (*VariableNode) node() {}

// BlockNode represents a named, overridable section for template
// inheritance: {% block name %}...{% endblock %}.
type BlockNode struct {
	Name string
	Body []Node
}

func (*BlockNode) node() {}

// ForNode represents a loop: {% for x in items %}...{% empty %}...{% endfor %}.
// EmptyBody renders when the iterable is empty or not a list.
type ForNode struct {
	Var       string
	Iterable  string
	Body      []Node
	EmptyBody []Node
}

func (*ForNode) node() {}

// IfBranch is one arm of an if/elif/else chain. Else branches have no
// condition and always match.
type IfBranch struct {
	Cond string
	Else bool
	Body []Node
}

// IfNode represents an if/elif/else chain. Branches are evaluated in
// order; the first truthy one renders.
type IfNode struct {
	Branches []IfBranch
}

func (*IfNode) node() {}

// ExtendsNode declares that this template extends a parent template. It
// must be the first significant node of a document; the renderer enforces
// that.
type ExtendsNode struct {
	Template string
}

func (*ExtendsNode) node() {}

// IncludeNode includes another template by name.
type IncludeNode struct {
	Template string
}

func (*IncludeNode) node() {}

// CommentNode represents {# ... #}. It renders to nothing but is kept in
// the tree so tooling can see it.
type CommentNode struct{}

func (*CommentNode) node() {}
