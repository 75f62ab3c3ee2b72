// Package view builds page markup from lightweight element trees. It is a
// one-shot materializer: every render is a full rebuild of the page, there is
// no diffing and no partial update.
package view

// Attrs maps attribute names to values. A handful of names get special
// treatment during rendering: "class", "dataset" (a nested bag emitted as
// data-* attributes), boolean attributes such as "disabled" and "checked"
// (rendered presence-style), and "on"-prefixed handler names (lowercased).
type Attrs map[string]any

// Node is one immutable element of a page tree. A node with an empty Tag is
// a text leaf.
type Node struct {
	Tag      string
	Attrs    Attrs
	Children []Node
	text     string
}

// Text returns a text leaf. The value is escaped at render time.
func Text(s string) Node {
	return Node{text: s}
}

// El builds an element node. Children may be Node, []Node, string, int,
// int64, or nested []any; nil and bool entries are dropped, which lets
// callers write conditional children as view.If(cond, node).
func El(tag string, attrs Attrs, children ...any) Node {
	return Node{
		Tag:      tag,
		Attrs:    attrs,
		Children: flatten(children),
	}
}

// If returns the node when cond holds and nil otherwise, for conditional
// rendering inside an El child list.
func If(cond bool, node Node) any {
	if cond {
		return node
	}
	return nil
}

// Map renders a slice through fn, for list children.
func Map[T any](items []T, fn func(T) Node) []Node {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, fn(item))
	}
	return nodes
}

func flatten(children []any) []Node {
	var out []Node
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			// dropped; enables cond && node style children
		case bool:
			// dropped either way; only If produces renderable output
		case Node:
			out = append(out, v)
		case []Node:
			out = append(out, v...)
		case []any:
			out = append(out, flatten(v)...)
		case string:
			out = append(out, Text(v))
		case int:
			out = append(out, Text(itoa(int64(v))))
		case int64:
			out = append(out, Text(itoa(v)))
		}
	}
	return out
}
