package view

import (
	"html"
	"sort"
	"strconv"
	"strings"
)

// voidElements never take children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// booleanAttrs render presence-style: emitted bare when truthy, omitted
// otherwise.
var booleanAttrs = map[string]bool{
	"checked": true, "disabled": true, "selected": true, "hidden": true,
	"required": true, "readonly": true, "autofocus": true, "multiple": true,
}

// String renders a tree fragment to markup.
func String(nodes ...Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n)
	}
	return b.String()
}

// Document renders a complete HTML page around the given body nodes.
func Document(title string, body ...Node) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>")
	writeNode(&b, El("html", Attrs{"lang": "ko"},
		El("head", nil,
			El("meta", Attrs{"charset": "utf-8"}),
			El("meta", Attrs{"name": "viewport", "content": "width=device-width, initial-scale=1"}),
			El("title", nil, title),
		),
		El("body", nil, toAny(body)...),
	))
	return b.String()
}

func toAny(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func writeNode(b *strings.Builder, n Node) {
	if n.Tag == "" {
		b.WriteString(html.EscapeString(n.text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	writeAttrs(b, n.Attrs)

	if voidElements[n.Tag] {
		b.WriteByte('>')
		return
	}

	b.WriteByte('>')
	for _, child := range n.Children {
		writeNode(b, child)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

// writeAttrs emits attributes in a stable order so rendered pages are
// deterministic.
func writeAttrs(b *strings.Builder, attrs Attrs) {
	if len(attrs) == 0 {
		return
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := attrs[key]
		if value == nil || value == false {
			continue
		}

		switch {
		case key == "dataset":
			writeDataset(b, value)
		case booleanAttrs[key]:
			// presence-style; any truthy value emits the bare attribute
			b.WriteByte(' ')
			b.WriteString(key)
		case strings.HasPrefix(key, "on"):
			writeAttr(b, strings.ToLower(key), value)
		default:
			writeAttr(b, key, value)
		}
	}
}

func writeDataset(b *strings.Builder, value any) {
	bag, ok := value.(map[string]any)
	if !ok {
		return
	}
	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeAttr(b, "data-"+k, bag[k])
	}
}

func writeAttr(b *strings.Builder, key string, value any) {
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(stringify(value)))
	b.WriteByte('"')
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return itoa(int64(v))
	case int64:
		return itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
