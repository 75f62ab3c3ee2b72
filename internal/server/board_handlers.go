package server

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"amumal/internal/backend"
	"amumal/internal/middleware"
	"amumal/internal/models"
	"amumal/internal/view"
)

const boardPageSize = 10

// token is the bearer credential for backend calls, empty when logged out.
func token(rec *models.SessionRecord) string {
	if rec == nil {
		return ""
	}
	return rec.AccessToken
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// postCard renders one board entry. The whole card links to the detail page.
func postCard(p models.Post) view.Node {
	authorAvatar := view.El("span", view.Attrs{
		"class":       "author-avatar",
		"aria-hidden": "true",
	})
	if p.AuthorProfileImage != "" {
		authorAvatar = view.El("img", view.Attrs{
			"class": "author-avatar has-avatar",
			"src":   p.AuthorProfileImage,
			"alt":   "",
		})
	}

	return view.El("a", view.Attrs{
		"class": "post-link",
		"href":  fmt.Sprintf("/post-detail.html?postId=%d", p.ID),
	},
		view.El("article", view.Attrs{
			"class":   "post",
			"dataset": map[string]any{"post-id": p.ID},
		},
			view.El("div", view.Attrs{"class": "post-head"},
				view.El("h2", view.Attrs{"class": "post-title"}, orElse(p.Title, "(제목 없음)")),
				view.El("time", view.Attrs{"class": "post-date"}, p.CreatedAt),
			),
			view.El("div", view.Attrs{"class": "post-meta"},
				view.El("span", nil, fmt.Sprintf("좋아요 %d", p.Likes)),
				view.El("span", nil, fmt.Sprintf("댓글 %d", p.CommentCount)),
				view.El("span", nil, fmt.Sprintf("조회수 %d", p.Views)),
			),
			view.El("div", view.Attrs{"class": "post-divider"}),
			view.El("footer", view.Attrs{"class": "post-footer"},
				authorAvatar,
				view.El("span", view.Attrs{"class": "author-name"}, orElse(p.AuthorName, "익명")),
			),
		),
	)
}

func boardView(rec *models.SessionRecord, flash string, list *models.PostPage, loadErr string) string {
	content := []any{
		view.El("section", view.Attrs{"class": "intro"},
			view.El("p", nil, "안녕하세요, 아무 말 대잔치 게시판입니다."),
			view.El("a", view.Attrs{"class": "btn primary", "href": "/post-create.html"}, "게시글 작성"),
		),
	}

	switch {
	case loadErr != "":
		content = append(content, view.El("p", view.Attrs{"class": "empty"}, loadErr))
	case list == nil || len(list.Items) == 0:
		content = append(content, view.El("p", view.Attrs{"class": "empty"}, "아직 작성된 게시글이 없습니다."))
	default:
		content = append(content, view.El("div", view.Attrs{"class": "board"},
			view.Map(list.Items, postCard),
		))
		content = append(content, boardPager(list))
	}

	return pageShell("아무 말 대잔치", rec, flash, content...)
}

// boardPager renders prev/next page links when there is anywhere to go.
func boardPager(list *models.PostPage) view.Node {
	children := []any{}
	if list.Page > 0 {
		children = append(children, view.El("a", view.Attrs{
			"class": "pager-prev",
			"href":  fmt.Sprintf("/board.html?page=%d", list.Page-1),
		}, "이전"))
	}
	seen := int64(list.Page+1) * int64(list.Limit)
	if list.Limit > 0 && seen < list.TotalCount {
		children = append(children, view.El("a", view.Attrs{
			"class": "pager-next",
			"href":  fmt.Sprintf("/board.html?page=%d", list.Page+1),
		}, "다음"))
	}
	return view.El("nav", view.Attrs{"class": "pager"}, children...)
}

// BoardPage renders the post list. A logged-in browser re-syncs its identity
// from the backend first; a failed sync degrades to a logged-out render
// instead of blocking the board.
func (s *Server) BoardPage(c *fiber.Ctx) error {
	sid, rec := s.currentSession(c)
	ctx := c.UserContext()

	if rec.LoggedIn() {
		if _, err := s.users.Sync(ctx, sid, rec); err != nil {
			middleware.Logger.WarnContext(ctx, "session sync failed", "error", err)
			if models.IsUnauthorized(err) {
				rec = nil
			}
		}
	}

	flash := s.takeFlash(ctx, sid, rec)

	page := c.QueryInt("page", 0)
	if page < 0 {
		page = 0
	}
	list, err := s.posts.List(ctx, token(rec), page, boardPageSize)
	if err != nil {
		return renderPage(c, "board", boardView(rec, flash, nil,
			"게시글을 불러오는 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."))
	}
	return renderPage(c, "board", boardView(rec, flash, list, ""))
}

func searchView(rec *models.SessionRecord, flash, keyword string, list *models.PostPage, loadErr string) string {
	content := []any{
		view.El("form", view.Attrs{"class": "search-form", "method": "get", "action": "/search.html"},
			textInput("text", "keyword", keyword, "검색어를 입력하세요"),
			submitButton("검색"),
		),
	}

	switch {
	case loadErr != "":
		content = append(content, view.El("p", view.Attrs{"class": "empty"}, loadErr))
	case list == nil:
		// no query yet
	case len(list.Items) == 0:
		content = append(content, view.El("p", view.Attrs{"class": "empty"}, "검색 결과가 없습니다."))
	default:
		content = append(content, view.El("div", view.Attrs{"class": "board"},
			view.Map(list.Items, postCard),
		))
	}

	return pageShell("게시글 검색", rec, flash, content...)
}

// SearchPage runs the filtered board query when a keyword or filter is given.
func (s *Server) SearchPage(c *fiber.Ctx) error {
	sid, rec := s.currentSession(c)
	ctx := c.UserContext()
	flash := s.takeFlash(ctx, sid, rec)

	keyword := c.Query("keyword")
	if keyword == "" && c.Query("minLikes") == "" && c.Query("minViews") == "" {
		return renderPage(c, "search", searchView(rec, flash, "", nil, ""))
	}

	in := backend.SearchInput{
		Keyword: keyword,
		Page:    c.QueryInt("page", 0),
		Limit:   boardPageSize,
		Sort:    "DATE",
	}
	if v := c.QueryInt("minLikes", -1); v >= 0 {
		in.MinLikes = &v
	}
	if v := c.QueryInt("minViews", -1); v >= 0 {
		in.MinViews = &v
	}
	if v := queryID(c, "authorId"); v > 0 {
		in.AuthorID = &v
	}

	list, err := s.posts.Search(ctx, token(rec), in)
	if err != nil {
		return renderPage(c, "search", searchView(rec, flash, keyword, nil, models.ErrorMessage(err)))
	}
	return renderPage(c, "search", searchView(rec, flash, keyword, list, ""))
}

// ResetViews is the admin-only bulk view reset; the backend enforces the
// role, the page just relays the outcome.
func (s *Server) ResetViews(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	threshold := c.QueryInt("threshold", 1000)
	if v, convErr := strconv.Atoi(c.FormValue("threshold")); convErr == nil {
		threshold = v
	}
	if err := s.posts.ResetViews(c.UserContext(), rec.AccessToken, threshold); err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), "/board.html")
	}
	return s.flashAndRedirect(c, sid, "조회수가 초기화되었습니다.", "/board.html")
}
