package template

import (
	"bytes"
	"fmt"
	"strings"
)

// Loader turns a template name into source text. Implementations live in
// pkg/loaders; the renderer only needs this one method.
type Loader interface {
	Load(name string) (string, error)
}

// Renderer renders parsed templates against a Context, resolving extends
// chains and includes through its Loader.
type Renderer struct {
	Loader    Loader
	Evaluator *Evaluator
}

func NewRenderer(loader Loader) *Renderer {
	return &Renderer{Loader: loader, Evaluator: NewEvaluator()}
}

// Render loads, parses, and renders the named template.
func (r *Renderer) Render(name string, ctx Context) (string, error) {
	src, err := r.load(name)
	if err != nil {
		return "", err
	}
	return r.RenderSource(src, ctx)
}

// RenderSource parses and renders template source directly.
func (r *Renderer) RenderSource(src string, ctx Context) (string, error) {
	doc, err := Parse(src)
	if err != nil {
		return "", err
	}
	return r.RenderDocument(doc, ctx)
}

// RenderDocument renders a parsed document. If the document extends a
// parent, its top-level blocks override the parent's; the chain repeats
// transitively, and the deepest child's definition of a block always wins.
func (r *Renderer) RenderDocument(doc *Document, ctx Context) (string, error) {
	overrides := map[string]*BlockNode{}
	parentName, err := extendsTarget(doc)
	if err != nil {
		return "", err
	}
	if parentName == "" {
		var buf bytes.Buffer
		if err := r.renderNodes(&buf, doc.Nodes, ctx, overrides); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	collectBlocks(doc, overrides)
	return r.renderParent(parentName, ctx, overrides)
}

// renderParent loads and parses an ancestor template, threading the
// accumulated block override map forward. A parent that itself extends a
// grandparent contributes its own blocks only where the map has no entry
// yet (first write wins, preserving deepest-child priority).
func (r *Renderer) renderParent(name string, ctx Context, overrides map[string]*BlockNode) (string, error) {
	src, err := r.load(name)
	if err != nil {
		return "", err
	}
	doc, err := Parse(src)
	if err != nil {
		return "", err
	}
	parentName, err := extendsTarget(doc)
	if err != nil {
		return "", err
	}
	if parentName != "" {
		collectBlocks(doc, overrides)
		return r.renderParent(parentName, ctx, overrides)
	}
	var buf bytes.Buffer
	if err := r.renderNodes(&buf, doc.Nodes, ctx, overrides); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) load(name string) (string, error) {
	if r.Loader == nil {
		return "", fmt.Errorf("no template loader configured")
	}
	return r.Loader.Load(name)
}

// extendsTarget returns the parent template name, or "" if the document
// does not extend. An extends tag anywhere but the first significant
// position is a render-time error.
func extendsTarget(doc *Document) (string, error) {
	target := ""
	significant := false
	for _, n := range doc.Nodes {
		switch t := n.(type) {
		case *TextNode:
			if strings.TrimSpace(t.Text) != "" {
				significant = true
			}
		case *CommentNode:
			// not significant
		case *ExtendsNode:
			if significant || target != "" {
				return "", fmt.Errorf("extends must be the first tag in a template")
			}
			target = t.Template
			significant = true
		default:
			significant = true
		}
	}
	return target, nil
}

// collectBlocks records the document's top-level blocks into the override
// map, keeping existing entries.
func collectBlocks(doc *Document, overrides map[string]*BlockNode) {
	for _, n := range doc.Nodes {
		if bn, ok := n.(*BlockNode); ok {
			if _, exists := overrides[bn.Name]; !exists {
				overrides[bn.Name] = bn
			}
		}
	}
}

func (r *Renderer) renderNodes(buf *bytes.Buffer, nodes []Node, ctx Context, overrides map[string]*BlockNode) error {
	for _, n := range nodes {
		switch t := n.(type) {
		case *TextNode:
			buf.WriteString(t.Text)
		case *CommentNode:
			// renders to nothing
		case *VariableNode:
			v, err := r.Evaluator.Eval(t.Expr, ctx)
			if err != nil {
				return err
			}
			buf.WriteString(v.String())
		case *BlockNode:
			body := t.Body
			if ov, ok := overrides[t.Name]; ok {
				body = ov.Body
			}
			if err := r.renderNodes(buf, body, ctx, overrides); err != nil {
				return err
			}
		case *IfNode:
			if err := r.renderIf(buf, t, ctx, overrides); err != nil {
				return err
			}
		case *ForNode:
			if err := r.renderFor(buf, t, ctx, overrides); err != nil {
				return err
			}
		case *IncludeNode:
			// Parsed fresh on every render; caching, if any, belongs to
			// the loader. The included template shares this template's
			// context and block override map.
			src, err := r.load(t.Template)
			if err != nil {
				return err
			}
			doc, err := Parse(src)
			if err != nil {
				return err
			}
			if err := r.renderNodes(buf, doc.Nodes, ctx, overrides); err != nil {
				return err
			}
		case *ExtendsNode:
			// Handled at document level.
		default:
			return fmt.Errorf("unhandled node type: %T", n)
		}
	}
	return nil
}

func (r *Renderer) renderIf(buf *bytes.Buffer, n *IfNode, ctx Context, overrides map[string]*BlockNode) error {
	for _, br := range n.Branches {
		if !br.Else {
			ok, err := r.Evaluator.Truthy(br.Cond, ctx)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}
		return r.renderNodes(buf, br.Body, ctx, overrides)
	}
	return nil
}

func (r *Renderer) renderFor(buf *bytes.Buffer, n *ForNode, ctx Context, overrides map[string]*BlockNode) error {
	items, err := r.Evaluator.Eval(n.Iterable, ctx)
	if err != nil {
		return err
	}
	list, ok := items.(ListValue)
	if !ok || len(list) == 0 {
		return r.renderNodes(buf, n.EmptyBody, ctx, overrides)
	}
	for i, item := range list {
		layer := ctx.Layer()
		layer[n.Var] = item
		layer["forloop"] = DictValue{
			"counter":     IntValue(i + 1),
			"counter0":    IntValue(i),
			"revcounter":  IntValue(len(list) - i),
			"revcounter0": IntValue(len(list) - i - 1),
			"first":       BoolValue(i == 0),
			"last":        BoolValue(i == len(list)-1),
		}
		if err := r.renderNodes(buf, n.Body, layer, overrides); err != nil {
			return err
		}
	}
	return nil
}
