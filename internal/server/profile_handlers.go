package server

import (
	"github.com/gofiber/fiber/v2"

	"amumal/internal/models"
	"amumal/internal/validation"
	"amumal/internal/view"
)

// profileForm carries the re-render state of the profile page.
type profileForm struct {
	Nickname string
	Errors   validation.FieldErrors
}

func profileEditView(rec *models.SessionRecord, flash string, form profileForm) string {
	avatar := view.El("span", view.Attrs{"class": "avatar big"}, "👩🏻‍💻")
	if rec.ProfileImage != "" {
		avatar = view.El("img", view.Attrs{"class": "avatar big has-avatar", "src": rec.ProfileImage, "alt": rec.Nickname})
	}

	return pageShell("회원정보수정", rec, flash,
		view.El("section", view.Attrs{"class": "card profile"},
			view.El("h2", view.Attrs{"class": "page-title"}, "회원정보수정"),
			view.El("form", view.Attrs{
				"method":  "post",
				"action":  "/profile-edit.html",
				"enctype": "multipart/form-data",
			},
				view.El("div", view.Attrs{"class": "avatar-edit"},
					avatar,
					view.El("span", view.Attrs{"class": "badge"}, "변경"),
					view.El("input", view.Attrs{"type": "file", "name": "profileImage", "accept": "image/*"}),
					view.El("p", view.Attrs{"class": "helper", "hidden": form.Errors["profileImage"] == ""}, form.Errors["profileImage"]),
				),
				view.El("div", view.Attrs{"class": "field"},
					view.El("label", view.Attrs{"class": "label"}, "이메일"),
					view.El("p", view.Attrs{"class": "readonly"}, rec.Email),
				),
				formField("닉네임", textInput("text", "nickname", form.Nickname, "닉네임을 입력하세요"), form.Errors["nickname"]),
				view.El("button", view.Attrs{"class": "btn primary block", "type": "submit"}, "수정하기"),
			),
			view.El("form", view.Attrs{"method": "post", "action": "/account/delete"},
				view.El("button", view.Attrs{"class": "link danger", "type": "submit"}, "회원 탈퇴"),
			),
		),
	)
}

// ProfileEditPage renders the profile form prefilled from the session.
func (s *Server) ProfileEditPage(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	ctx := c.UserContext()

	// Server truth wins over the stored record before editing starts.
	if user, syncErr := s.users.Sync(ctx, sid, rec); syncErr == nil {
		rec.Email = user.Email
		rec.Nickname = user.Nickname
		if user.ProfileImage != "" {
			rec.ProfileImage = user.ProfileImage
		}
	}

	flash := s.takeFlash(ctx, sid, rec)
	return renderPage(c, "profile-edit", profileEditView(rec, flash, profileForm{Nickname: rec.Nickname}))
}

// UpdateProfile saves the new nickname and optional avatar.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	ctx := c.UserContext()

	form := profileForm{Nickname: c.FormValue("nickname")}
	errs := validation.ValidateProfile(form.Nickname)

	avatar, imgErr := s.formImage(c, "profileImage")
	if imgErr != nil {
		if errs == nil {
			errs = validation.FieldErrors{}
		}
		errs["profileImage"] = models.ErrorMessage(imgErr)
	}
	if errs.Any() {
		form.Errors = errs
		return renderPage(c, "profile-edit", profileEditView(rec, "", form))
	}

	if _, err := s.users.UpdateProfile(ctx, sid, rec, form.Nickname, avatar); err != nil {
		return renderPage(c, "profile-edit", profileEditView(rec, models.ErrorMessage(err), form))
	}
	return s.flashAndRedirect(c, sid, "프로필이 수정되었습니다.", "/profile-edit.html")
}

// passwordForm carries the re-render state of the password page.
type passwordForm struct {
	Errors validation.FieldErrors
}

func passwordEditView(rec *models.SessionRecord, flash string, form passwordForm) string {
	return pageShell("비밀번호 수정", rec, flash,
		view.El("section", view.Attrs{"class": "card password"},
			view.El("h2", view.Attrs{"class": "title"}, "비밀번호 수정"),
			view.El("form", view.Attrs{"method": "post", "action": "/password-edit.html"},
				formField("현재 비밀번호", textInput("password", "currentPassword", "", "현재 비밀번호를 입력하세요"), form.Errors["currentPassword"]),
				formField("새 비밀번호", textInput("password", "password", "", "새 비밀번호를 입력하세요"), form.Errors["password"]),
				formField("새 비밀번호 확인", textInput("password", "passwordCheck", "", "새 비밀번호를 한 번 더 입력하세요"), form.Errors["passwordCheck"]),
				submitButton("수정하기"),
			),
		),
	)
}

// PasswordEditPage renders the password change form.
func (s *Server) PasswordEditPage(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	flash := s.takeFlash(c.UserContext(), sid, rec)
	return renderPage(c, "password-edit", passwordEditView(rec, flash, passwordForm{}))
}

// UpdatePassword changes the account password.
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	ctx := c.UserContext()

	current := c.FormValue("currentPassword")
	password := c.FormValue("password")
	passwordCheck := c.FormValue("passwordCheck")

	if errs := validation.ValidatePasswordChange(current, password, passwordCheck); errs.Any() {
		return renderPage(c, "password-edit", passwordEditView(rec, "", passwordForm{Errors: errs}))
	}

	if err := s.users.UpdatePassword(ctx, rec, current, password, passwordCheck); err != nil {
		return renderPage(c, "password-edit", passwordEditView(rec, models.ErrorMessage(err), passwordForm{}))
	}
	return s.flashAndRedirect(c, sid, "비밀번호가 성공적으로 변경되었습니다.", "/profile-edit.html")
}

// DeleteAccount removes the account and sends the browser to the login page.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	if err := s.users.DeleteAccount(c.UserContext(), sid, rec); err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), "/profile-edit.html")
	}
	return s.flashAndRedirect(c, sid, "회원 탈퇴가 완료되었습니다.", "/login.html")
}
