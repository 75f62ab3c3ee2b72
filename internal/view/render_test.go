package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextEscapes(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", String(Text("<script>alert(1)</script>")))
}

func TestElFlattensChildren(t *testing.T) {
	got := String(El("ul", nil,
		[]Node{El("li", nil, "a"), El("li", nil, "b")},
		[]any{El("li", nil, "c"), nil, false},
		El("li", nil, "d"),
	))
	assert.Equal(t, "<ul><li>a</li><li>b</li><li>c</li><li>d</li></ul>", got)
}

func TestElNumericChildren(t *testing.T) {
	assert.Equal(t, "<span>좋아요 42</span>", String(El("span", nil, "좋아요 ", 42)))
	assert.Equal(t, "<span>7</span>", String(El("span", nil, int64(7))))
}

func TestIfConditional(t *testing.T) {
	badge := El("span", Attrs{"class": "badge"}, "new")
	assert.Equal(t, `<div><span class="badge">new</span></div>`, String(El("div", nil, If(true, badge))))
	assert.Equal(t, "<div></div>", String(El("div", nil, If(false, badge))))
}

func TestMapList(t *testing.T) {
	got := String(El("ol", nil, Map([]string{"하나", "둘"}, func(s string) Node {
		return El("li", nil, s)
	})))
	assert.Equal(t, "<ol><li>하나</li><li>둘</li></ol>", got)
}

func TestAttrsSortedAndEscaped(t *testing.T) {
	got := String(El("a", Attrs{"href": "/x?a=1&b=2", "class": "link"}, "go"))
	assert.Equal(t, `<a class="link" href="/x?a=1&amp;b=2">go</a>`, got)
}

func TestBooleanAttrsPresenceStyle(t *testing.T) {
	assert.Equal(t, `<input disabled type="text">`, String(El("input", Attrs{"type": "text", "disabled": true})))
	assert.Equal(t, `<input type="text">`, String(El("input", Attrs{"type": "text", "disabled": false})))
	assert.Equal(t, `<button disabled>저장</button>`, String(El("button", Attrs{"disabled": "disabled"}, "저장")))
}

func TestNilAttrValueDropped(t *testing.T) {
	assert.Equal(t, "<div>x</div>", String(El("div", Attrs{"class": nil}, "x")))
}

func TestDatasetExpandsToDataAttrs(t *testing.T) {
	got := String(El("article", Attrs{"dataset": map[string]any{"post-id": int64(5), "kind": "card"}}))
	assert.Equal(t, `<article data-kind="card" data-post-id="5"></article>`, got)
}

func TestHandlerNamesLowercased(t *testing.T) {
	got := String(El("form", Attrs{"onSubmit": "return false"}))
	assert.Equal(t, `<form onsubmit="return false"></form>`, got)
}

func TestVoidElementsSelfClose(t *testing.T) {
	assert.Equal(t, `<img alt="" src="/a.png">`, String(El("img", Attrs{"src": "/a.png", "alt": ""})))
	assert.Equal(t, "<br>", String(El("br", nil)))
}

func TestDocumentShell(t *testing.T) {
	doc := Document("아무 말 대잔치", El("main", nil, "hello"))
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `<html lang="ko">`)
	assert.Contains(t, doc, `<meta charset="utf-8">`)
	assert.Contains(t, doc, "<title>아무 말 대잔치</title>")
	assert.Contains(t, doc, "<main>hello</main>")
}
