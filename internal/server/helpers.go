package server

import (
	"context"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"amumal/internal/middleware"
	"amumal/internal/models"
	"amumal/internal/observability"
	"amumal/internal/service"
)

const loginRequiredMessage = "로그인 후 이용 가능한 페이지입니다."

// sessionID returns the browser's session id, minting a cookie when absent.
func (s *Server) sessionID(c *fiber.Ctx) string {
	sid := c.Cookies(s.config.SessionCookie)
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     s.config.SessionCookie,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			Secure:   s.config.CookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Locals("sessionID", sid)
	return sid
}

// currentSession loads the session record for this browser and refreshes a
// near-expiry access token. Logged-out browsers get (sid, nil).
func (s *Server) currentSession(c *fiber.Ctx) (string, *models.SessionRecord) {
	sid := s.sessionID(c)
	ctx := c.UserContext()

	rec, err := s.auth.Current(ctx, sid)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "session load failed", "error", err)
		return sid, nil
	}
	if rec.LoggedIn() {
		if fresh, err := s.auth.EnsureFresh(ctx, sid, rec); err == nil {
			rec = fresh
		} else {
			middleware.Logger.WarnContext(ctx, "token refresh failed", "error", err)
		}
	}
	return sid, rec
}

// requireLogin is currentSession for protected pages: a logged-out browser is
// redirected to the login page with a flash and the handler must return the
// error with rec == nil.
func (s *Server) requireLogin(c *fiber.Ctx) (string, *models.SessionRecord, error) {
	sid, rec := s.currentSession(c)
	if rec.LoggedIn() {
		return sid, rec, nil
	}
	s.setFlash(c.UserContext(), sid, loginRequiredMessage)
	return sid, nil, c.Redirect("/login.html", fiber.StatusSeeOther)
}

// setFlash stores a one-shot message shown on the next rendered page.
func (s *Server) setFlash(ctx context.Context, sid, message string) {
	if err := s.store.Save(ctx, sid, map[string]any{"flash": message}); err != nil {
		middleware.Logger.WarnContext(ctx, "flash save failed", "error", err)
	}
}

// takeFlash consumes the pending flash message, if any.
func (s *Server) takeFlash(ctx context.Context, sid string, rec *models.SessionRecord) string {
	if rec == nil || rec.Flash == "" {
		return ""
	}
	message := rec.Flash
	rec.Flash = ""
	s.setFlash(ctx, sid, "")
	return message
}

// flashAndRedirect is the common form-POST exit path.
func (s *Server) flashAndRedirect(c *fiber.Ctx, sid, message, location string) error {
	s.setFlash(c.UserContext(), sid, message)
	return c.Redirect(location, fiber.StatusSeeOther)
}

// renderPage writes a built HTML document and counts the render.
func renderPage(c *fiber.Ctx, page, html string) error {
	observability.PageRenders.WithLabelValues(page).Inc()
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

// pathID parses a positive integer route parameter.
func pathID(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, models.NewValidationError("잘못된 요청입니다.")
	}
	return v, nil
}

// queryID parses a positive integer query parameter, zero when absent.
func queryID(c *fiber.Ctx, name string) int64 {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

// formImage reads an optional multipart image field into a data URL via the
// image service. Absent files yield an empty string.
func (s *Server) formImage(c *fiber.Ctx, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return "", nil
	}
	f, err := fh.Open()
	if err != nil {
		return "", models.NewValidationError("이미지를 읽는 중 오류가 발생했습니다.")
	}
	defer f.Close()

	// Read one byte past the cap so oversized uploads fail the size check
	// instead of silently truncating.
	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageSize+1))
	if err != nil {
		return "", models.NewValidationError("이미지를 읽는 중 오류가 발생했습니다.")
	}
	return s.images.DataURL(data)
}
