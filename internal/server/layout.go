package server

import (
	"amumal/internal/models"
	"amumal/internal/view"
)

// pageShell wraps page content in the board's common chrome: the title bar
// with the avatar menu, plus a one-shot flash toast when present.
func pageShell(title string, rec *models.SessionRecord, flash string, content ...any) string {
	body := []view.Node{
		view.El("header", view.Attrs{"class": "topbar"},
			view.El("a", view.Attrs{"class": "brand", "href": "/board.html"}, "아무 말 대잔치"),
			avatarMenu(rec),
		),
	}
	if flash != "" {
		body = append(body, view.El("div", view.Attrs{"class": "toast", "role": "alert"}, flash))
	}
	body = append(body, view.El("main", view.Attrs{"class": "container"}, content...))
	return view.Document(title, body...)
}

// avatarMenu renders the header's right side: the avatar dropdown when logged
// in, a login link otherwise.
func avatarMenu(rec *models.SessionRecord) view.Node {
	if !rec.LoggedIn() {
		return view.El("a", view.Attrs{"class": "link-btn", "href": "/login.html"}, "로그인")
	}

	avatar := view.El("span", view.Attrs{"class": "avatar", "aria-hidden": "true"}, "👩🏻‍💻")
	if rec.ProfileImage != "" {
		avatar = view.El("img", view.Attrs{
			"class": "avatar has-avatar",
			"src":   rec.ProfileImage,
			"alt":   rec.Nickname,
		})
	}

	return view.El("div", view.Attrs{"class": "avatar-wrap", "id": "avatarWrap"},
		avatar,
		view.El("nav", view.Attrs{"class": "avatar-menu", "id": "avatarMenu"},
			view.El("a", view.Attrs{"href": "/profile-edit.html"}, "회원정보수정"),
			view.El("a", view.Attrs{"href": "/password-edit.html"}, "비밀번호수정"),
			view.El("form", view.Attrs{"method": "post", "action": "/logout"},
				view.El("button", view.Attrs{"class": "menu-logout", "type": "submit"}, "로그아웃"),
			),
		),
	)
}

// formField renders a labeled control with its helper line. helper is empty
// for untouched fields; the class mirrors the original pages' helper styling.
func formField(label string, input view.Node, helper string) view.Node {
	return view.El("div", view.Attrs{"class": "field"},
		view.El("label", view.Attrs{"class": "label"}, label),
		input,
		view.El("p", view.Attrs{
			"class":  "helper",
			"hidden": helper == "",
		}, helper),
	)
}

// textInput builds a standard form input.
func textInput(typ, name, value, placeholder string) view.Node {
	return view.El("input", view.Attrs{
		"type":        typ,
		"name":        name,
		"id":          name,
		"value":       value,
		"placeholder": placeholder,
	})
}

// submitButton renders the primary form action.
func submitButton(label string) view.Node {
	return view.El("button", view.Attrs{
		"class": "btn primary",
		"type":  "submit",
	}, label)
}
