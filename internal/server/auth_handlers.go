package server

import (
	"github.com/gofiber/fiber/v2"

	"amumal/internal/backend"
	"amumal/internal/models"
	"amumal/internal/validation"
	"amumal/internal/view"
)

// loginForm carries the re-render state of the login page.
type loginForm struct {
	Email  string
	Errors validation.FieldErrors
}

func loginView(rec *models.SessionRecord, flash string, form loginForm) string {
	return pageShell("로그인", rec, flash,
		view.El("section", view.Attrs{"class": "card auth"},
			view.El("h2", view.Attrs{"class": "auth-title"}, "로그인"),
			view.El("form", view.Attrs{"class": "auth-form", "method": "post", "action": "/login.html"},
				formField("이메일", textInput("email", "email", form.Email, "이메일을 입력하세요"), form.Errors["email"]),
				formField("비밀번호", textInput("password", "password", "", "비밀번호를 입력하세요"), form.Errors["password"]),
				view.El("label", view.Attrs{"class": "remember"},
					view.El("input", view.Attrs{"type": "checkbox", "name": "remember"}),
					"로그인 상태 유지",
				),
				submitButton("로그인"),
			),
			view.El("a", view.Attrs{"class": "link-btn", "href": "/signup.html"}, "회원가입"),
		),
	)
}

// LoginPage renders the login form. A logged-in browser goes straight to the
// board.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	sid, rec := s.currentSession(c)
	if rec.LoggedIn() {
		return c.Redirect("/board.html", fiber.StatusFound)
	}
	flash := s.takeFlash(c.UserContext(), sid, rec)
	return renderPage(c, "login", loginView(rec, flash, loginForm{}))
}

// Login processes the login form. Validation and known backend messages land
// on the offending field; anything else becomes a flash on the re-render.
func (s *Server) Login(c *fiber.Ctx) error {
	sid, rec := s.currentSession(c)
	ctx := c.UserContext()

	email := c.FormValue("email")
	password := c.FormValue("password")
	remember := c.FormValue("remember") != ""

	if errs := validation.ValidateLogin(email, password); errs.Any() {
		return renderPage(c, "login", loginView(rec, "", loginForm{Email: email, Errors: errs}))
	}

	if _, err := s.auth.Login(ctx, sid, email, password, remember); err != nil {
		message := models.ErrorMessage(err)
		if errs, ok := validation.MapLoginError(message); ok {
			return renderPage(c, "login", loginView(rec, "", loginForm{Email: email, Errors: errs}))
		}
		return renderPage(c, "login", loginView(rec, message, loginForm{Email: email}))
	}

	return s.flashAndRedirect(c, sid, "로그인에 성공했습니다.", "/board.html")
}

// signupForm carries the re-render state of the signup page.
type signupForm struct {
	Email    string
	Nickname string
	Errors   validation.FieldErrors
}

func signupView(rec *models.SessionRecord, flash string, form signupForm) string {
	return pageShell("회원가입", rec, flash,
		view.El("section", view.Attrs{"class": "card auth"},
			view.El("h2", view.Attrs{"class": "signup-title"}, "회원가입"),
			view.El("form", view.Attrs{
				"class":   "auth-form",
				"method":  "post",
				"action":  "/signup.html",
				"enctype": "multipart/form-data",
			},
				formField("프로필 사진",
					view.El("input", view.Attrs{"type": "file", "name": "profileImage", "accept": "image/*"}),
					form.Errors["profileImage"]),
				formField("이메일", textInput("email", "email", form.Email, "이메일을 입력하세요"), form.Errors["email"]),
				formField("비밀번호", textInput("password", "password", "", "비밀번호를 입력하세요"), form.Errors["password"]),
				formField("비밀번호 확인", textInput("password", "passwordCheck", "", "비밀번호를 한 번 더 입력하세요"), form.Errors["passwordCheck"]),
				formField("닉네임", textInput("text", "nickname", form.Nickname, "닉네임을 입력하세요"), form.Errors["nickname"]),
				submitButton("회원가입"),
			),
			view.El("a", view.Attrs{"class": "link-btn", "href": "/login.html"}, "로그인하러 가기"),
		),
	)
}

// SignupPage renders the signup form.
func (s *Server) SignupPage(c *fiber.Ctx) error {
	sid, rec := s.currentSession(c)
	if rec.LoggedIn() {
		return c.Redirect("/board.html", fiber.StatusFound)
	}
	flash := s.takeFlash(c.UserContext(), sid, rec)
	return renderPage(c, "signup", signupView(rec, flash, signupForm{}))
}

// Signup processes the signup form and sends the browser to the login page on
// success.
func (s *Server) Signup(c *fiber.Ctx) error {
	sid, rec := s.currentSession(c)
	ctx := c.UserContext()

	form := signupForm{
		Email:    c.FormValue("email"),
		Nickname: c.FormValue("nickname"),
	}
	password := c.FormValue("password")
	passwordCheck := c.FormValue("passwordCheck")

	errs := validation.ValidateSignup(form.Email, password, passwordCheck, form.Nickname)

	avatar, imgErr := s.formImage(c, "profileImage")
	if imgErr != nil {
		if errs == nil {
			errs = validation.FieldErrors{}
		}
		errs["profileImage"] = models.ErrorMessage(imgErr)
	}
	if errs.Any() {
		form.Errors = errs
		return renderPage(c, "signup", signupView(rec, "", form))
	}

	err := s.auth.Signup(ctx, backend.SignupInput{
		Email:         form.Email,
		Password:      password,
		PasswordCheck: passwordCheck,
		Nickname:      form.Nickname,
		ProfileImage:  avatar,
	})
	if err != nil {
		message := models.ErrorMessage(err)
		if mapped, ok := validation.MapSignupError(message); ok {
			form.Errors = mapped
			return renderPage(c, "signup", signupView(rec, "", form))
		}
		return renderPage(c, "signup", signupView(rec, message, form))
	}

	return s.flashAndRedirect(c, sid, "회원가입이 완료되었습니다. 로그인 페이지로 이동합니다.", "/login.html")
}

// Logout clears the local session and returns to the login page.
func (s *Server) Logout(c *fiber.Ctx) error {
	sid := s.sessionID(c)
	if err := s.auth.Logout(c.UserContext(), sid); err != nil {
		return renderPage(c, "login", loginView(nil, models.ErrorMessage(err), loginForm{}))
	}
	return c.Redirect("/login.html", fiber.StatusSeeOther)
}
