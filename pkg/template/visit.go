package template

import (
	"bytes"
	"fmt"
)

type Visitor interface {
	Visit(n Node) error
}

// Walk calls v.Visit on n and every node beneath it, depth-first.
func Walk(v Visitor, n Node) error {
	if err := v.Visit(n); err != nil {
		return err
	}
	walkChildren := func(nodes []Node) error {
		for _, c := range nodes {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
		return nil
	}
	switch t := n.(type) {
	case *Document:
		return walkChildren(t.Nodes)
	case *BlockNode:
		return walkChildren(t.Body)
	case *ForNode:
		if err := walkChildren(t.Body); err != nil {
			return err
		}
		return walkChildren(t.EmptyBody)
	case *IfNode:
		for _, br := range t.Branches {
			if err := walkChildren(br.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pretty returns a line-oriented string representation of the AST.
func Pretty(doc *Document) string {
	var buf bytes.Buffer
	ppNode(&buf, 0, doc)
	return buf.String()
}

func ppNode(buf *bytes.Buffer, indent int, n Node) {
	ind := func() {
		for i := 0; i < indent; i++ {
			buf.WriteByte(' ')
		}
	}
	switch t := n.(type) {
	case *Document:
		ind()
		buf.WriteString("Document\n")
		for _, c := range t.Nodes {
			ppNode(buf, indent+2, c)
		}
	case *TextNode:
		ind()
		fmt.Fprintf(buf, "Text(%q)\n", t.Text)
	case *VariableNode:
		ind()
		fmt.Fprintf(buf, "Variable(%q)\n", t.Expr)
	case *CommentNode:
		ind()
		buf.WriteString("Comment\n")
	case *BlockNode:
		ind()
		fmt.Fprintf(buf, "Block(%s)\n", t.Name)
		for _, c := range t.Body {
			ppNode(buf, indent+2, c)
		}
	case *ForNode:
		ind()
		fmt.Fprintf(buf, "For(%s in %q)\n", t.Var, t.Iterable)
		for _, c := range t.Body {
			ppNode(buf, indent+2, c)
		}
		if len(t.EmptyBody) > 0 {
			ind()
			buf.WriteString("Empty\n")
			for _, c := range t.EmptyBody {
				ppNode(buf, indent+2, c)
			}
		}
	case *IfNode:
		for i, br := range t.Branches {
			ind()
			switch {
			case br.Else:
				buf.WriteString("Else\n")
			case i == 0:
				fmt.Fprintf(buf, "If(%q)\n", br.Cond)
			default:
				fmt.Fprintf(buf, "Elif(%q)\n", br.Cond)
			}
			for _, c := range br.Body {
				ppNode(buf, indent+2, c)
			}
		}
	case *ExtendsNode:
		ind()
		fmt.Fprintf(buf, "Extends(%q)\n", t.Template)
	case *IncludeNode:
		ind()
		fmt.Fprintf(buf, "Include(%q)\n", t.Template)
	}
}
