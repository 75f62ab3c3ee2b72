package server

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"amumal/internal/backend"
	"amumal/internal/models"
	"amumal/internal/validation"
	"amumal/internal/view"
)

func detailPath(postID int64) string {
	return fmt.Sprintf("/post-detail.html?postId=%d", postID)
}

// commentView renders one comment; the author's own comment carries edit and
// delete controls, and the comment being edited swaps its text for a form.
func commentView(cm models.Comment, postID, viewerID, editingID int64) view.Node {
	mine := viewerID != 0 && cm.AuthorID == viewerID
	editing := mine && cm.ID == editingID

	var actions []any
	if mine {
		if editing {
			actions = append(actions,
				view.El("a", view.Attrs{"class": "chip c-cancel", "href": detailPath(postID)}, "취소"),
			)
		} else {
			actions = append(actions,
				view.El("a", view.Attrs{
					"class": "chip c-edit",
					"href":  fmt.Sprintf("%s&edit=%d", detailPath(postID), cm.ID),
				}, "수정"),
				view.El("form", view.Attrs{
					"method": "post",
					"action": fmt.Sprintf("/posts/%d/comments/%d/delete", postID, cm.ID),
				},
					view.El("button", view.Attrs{"class": "chip c-delete", "type": "submit"}, "삭제"),
				),
			)
		}
	}

	body := []any{
		view.El("div", view.Attrs{"class": "c-head"},
			view.El("div", view.Attrs{"class": "who"},
				view.El("span", view.Attrs{"class": "name"}, orElse(cm.AuthorName, "익명")),
				view.El("time", view.Attrs{"class": "date"}, cm.CreatedAt),
			),
			view.El("div", view.Attrs{"class": "actions"}, actions...),
		),
	}
	if editing {
		body = append(body, view.El("form", view.Attrs{
			"method": "post",
			"action": fmt.Sprintf("/posts/%d/comments/%d", postID, cm.ID),
		},
			view.El("textarea", view.Attrs{"class": "c-edit-input", "name": "content"}, cm.Content),
			view.El("button", view.Attrs{"class": "chip c-save", "type": "submit"}, "저장"),
		))
	} else {
		body = append(body, view.El("p", view.Attrs{"class": "c-text"}, cm.Content))
	}

	return view.El("article", view.Attrs{
		"class":   "comment",
		"dataset": map[string]any{"comment-id": cm.ID},
	},
		view.El("div", view.Attrs{"class": "c-left"}, view.El("span", view.Attrs{"class": "dot"})),
		view.El("div", view.Attrs{"class": "c-body"}, body...),
	)
}

func postDetailView(rec *models.SessionRecord, flash string, post *models.Post, comments []models.Comment, editingID int64) string {
	viewerID := int64(0)
	if rec != nil {
		viewerID = rec.UserID
	}
	owner := viewerID != 0 && post.AuthorID == viewerID

	var ownerActions []any
	if owner {
		ownerActions = append(ownerActions,
			view.El("a", view.Attrs{
				"class": "chip",
				"href":  fmt.Sprintf("/post-edit.html?postId=%d", post.ID),
			}, "수정"),
			view.El("form", view.Attrs{
				"method": "post",
				"action": fmt.Sprintf("/posts/%d/delete", post.ID),
			},
				view.El("button", view.Attrs{"class": "chip", "type": "submit"}, "삭제"),
			),
		)
	}

	likeClass := "stat"
	if post.Liked {
		likeClass = "stat is-liked"
	}

	commentCount := post.CommentCount
	if commentCount == 0 {
		commentCount = len(comments)
	}

	content := []any{
		view.El("h2", view.Attrs{"class": "post-title"}, post.Title),
		view.El("div", view.Attrs{"class": "meta-line"},
			view.El("div", view.Attrs{"class": "author"},
				view.If(post.AuthorProfileImage != "", view.El("img", view.Attrs{
					"class": "author-avatar",
					"src":   post.AuthorProfileImage,
					"alt":   "작성자 아바타",
				})),
				view.El("div", view.Attrs{"class": "author-text"},
					view.El("span", view.Attrs{"class": "name"}, orElse(post.AuthorName, "익명")),
					view.El("time", view.Attrs{"class": "date"}, post.CreatedAt),
				),
			),
			view.El("div", view.Attrs{"class": "actions"}, ownerActions...),
		),
		view.El("div", view.Attrs{"class": "media"},
			view.If(post.ImageURL != "", view.El("img", view.Attrs{
				"class": "post-image",
				"src":   post.ImageURL,
				"alt":   "게시글 이미지",
			}))),
		view.El("div", view.Attrs{"class": "content"}, post.Content),
		view.El("div", view.Attrs{"class": "stats"},
			view.El("form", view.Attrs{"method": "post", "action": fmt.Sprintf("/posts/%d/like", post.ID)},
				view.El("input", view.Attrs{"type": "hidden", "name": "liked", "value": strconv.FormatBool(post.Liked)}),
				view.El("button", view.Attrs{"class": likeClass, "type": "submit"},
					view.El("strong", nil, post.Likes),
					view.El("span", nil, "좋아요"),
				),
			),
			view.El("div", view.Attrs{"class": "stat"},
				view.El("strong", nil, post.Views),
				view.El("span", nil, "조회수"),
			),
			view.El("div", view.Attrs{"class": "stat"},
				view.El("strong", nil, commentCount),
				view.El("span", nil, "댓글"),
			),
		),
		view.El("hr", view.Attrs{"class": "divider"}),
		view.El("section", view.Attrs{"class": "card comment-write"},
			view.El("form", view.Attrs{"method": "post", "action": fmt.Sprintf("/posts/%d/comments", post.ID)},
				view.El("textarea", view.Attrs{
					"name":        "content",
					"placeholder": "댓글을 입력해주세요.",
					"aria-label":  "댓글 입력",
				}),
				view.El("div", view.Attrs{"class": "right"},
					submitButton("댓글 등록"),
				),
			),
		),
	}

	if len(comments) == 0 {
		content = append(content, view.El("section", view.Attrs{"class": "card comments", "aria-label": "댓글 목록"},
			view.El("p", view.Attrs{"class": "comments-empty"}, "첫 댓글을 남겨주세요!"),
		))
	} else {
		items := make([]any, 0, len(comments))
		for _, cm := range comments {
			items = append(items, commentView(cm, post.ID, viewerID, editingID))
		}
		content = append(content, view.El("section",
			view.Attrs{"class": "card comments", "aria-label": "댓글 목록"}, items...))
	}

	return pageShell(post.Title, rec, flash, content...)
}

// PostDetailPage renders one post with its comments. The post and comment
// fetches run concurrently.
func (s *Server) PostDetailPage(c *fiber.Ctx) error {
	sid, rec := s.currentSession(c)
	ctx := c.UserContext()

	postID := queryID(c, "postId")
	if postID == 0 {
		return s.flashAndRedirect(c, sid, "잘못된 요청입니다.", "/board.html")
	}

	var viewerID *int64
	if rec.LoggedIn() {
		viewerID = &rec.UserID
	}

	post, comments, err := s.posts.Detail(ctx, token(rec), postID, viewerID)
	if err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), "/board.html")
	}

	flash := s.takeFlash(ctx, sid, rec)
	editingID := queryID(c, "edit")
	return renderPage(c, "post-detail", postDetailView(rec, flash, post, comments, editingID))
}

// ToggleLike flips the viewer's like and returns to the detail page. The
// current liked state travels with the form so no read (and no view count)
// is spent working it out again; the backend's rejection shows up as a
// flash and the count never moves.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	postID, err := pathID(c, "postId")
	if err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), "/board.html")
	}

	post := &models.Post{ID: postID, Liked: c.FormValue("liked") == "true"}
	if err := s.posts.ToggleLike(c.UserContext(), rec.AccessToken, post); err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), detailPath(postID))
	}
	return c.Redirect(detailPath(postID), fiber.StatusSeeOther)
}

// DeletePost removes the post and returns to the board.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	postID, err := pathID(c, "postId")
	if err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), "/board.html")
	}
	if err := s.posts.Remove(c.UserContext(), rec.AccessToken, postID); err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), detailPath(postID))
	}
	return s.flashAndRedirect(c, sid, "게시글이 삭제되었습니다.", "/board.html")
}

// CreateComment appends a comment and returns to the detail page.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	postID, err := pathID(c, "postId")
	if err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), "/board.html")
	}
	if err := s.comments.Create(c.UserContext(), rec.AccessToken, postID, c.FormValue("content")); err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), detailPath(postID))
	}
	return c.Redirect(detailPath(postID), fiber.StatusSeeOther)
}

// UpdateComment saves an edited comment.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	postID, err := pathID(c, "postId")
	if err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), "/board.html")
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), detailPath(postID))
	}
	if err := s.comments.Update(c.UserContext(), rec.AccessToken, postID, commentID, c.FormValue("content")); err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), detailPath(postID))
	}
	return c.Redirect(detailPath(postID), fiber.StatusSeeOther)
}

// DeleteComment removes a comment.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	postID, err := pathID(c, "postId")
	if err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), "/board.html")
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), detailPath(postID))
	}
	if err := s.comments.Remove(c.UserContext(), rec.AccessToken, postID, commentID); err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), detailPath(postID))
	}
	return c.Redirect(detailPath(postID), fiber.StatusSeeOther)
}

// postForm carries the re-render state of the create and edit forms.
type postForm struct {
	Title    string
	Content  string
	HasImage bool
	Errors   validation.FieldErrors
}

func postFormView(rec *models.SessionRecord, flash, heading, action string, form postForm) string {
	fileNote := ""
	if form.HasImage {
		fileNote = "기존 이미지가 등록되어 있습니다."
	}
	return pageShell(heading, rec, flash,
		view.El("section", view.Attrs{"class": "card post-form"},
			view.El("h2", nil, heading),
			view.El("form", view.Attrs{
				"method":  "post",
				"action":  action,
				"enctype": "multipart/form-data",
			},
				formField("제목", textInput("text", "title", form.Title, "제목을 입력하세요 (최대 26자)"), form.Errors["title"]),
				view.El("div", view.Attrs{"class": "field"},
					view.El("label", view.Attrs{"class": "label"}, "내용"),
					view.El("textarea", view.Attrs{"name": "content", "placeholder": "내용을 입력하세요"}, form.Content),
					view.El("p", view.Attrs{"class": "helper", "hidden": form.Errors["content"] == ""}, form.Errors["content"]),
				),
				view.El("div", view.Attrs{"class": "field"},
					view.El("label", view.Attrs{"class": "label inline"}, "이미지"),
					view.El("input", view.Attrs{"type": "file", "name": "image", "accept": "image/*"}),
					view.If(fileNote != "", view.El("p", view.Attrs{"class": "file-hint"}, fileNote)),
					view.El("p", view.Attrs{"class": "helper", "hidden": form.Errors["image"] == ""}, form.Errors["image"]),
				),
				submitButton("완료"),
			),
		),
	)
}

// PostCreatePage renders the empty post form.
func (s *Server) PostCreatePage(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	flash := s.takeFlash(c.UserContext(), sid, rec)
	return renderPage(c, "post-create", postFormView(rec, flash, "게시글 작성", "/post-create.html", postForm{}))
}

// CreatePost validates and submits the new post, then opens it.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	ctx := c.UserContext()

	form := postForm{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}
	errs := validation.ValidatePost(form.Title, form.Content)

	imageURL, imgErr := s.formImage(c, "image")
	if imgErr != nil {
		if errs == nil {
			errs = validation.FieldErrors{}
		}
		errs["image"] = models.ErrorMessage(imgErr)
	}
	if errs.Any() {
		form.Errors = errs
		return renderPage(c, "post-create", postFormView(rec, "", "게시글 작성", "/post-create.html", form))
	}

	postID, err := s.posts.Create(ctx, rec.AccessToken, backend.PostInput{
		Title:    form.Title,
		Content:  form.Content,
		ImageURL: imageURL,
	})
	if err != nil {
		return renderPage(c, "post-create", postFormView(rec, models.ErrorMessage(err), "게시글 작성", "/post-create.html", form))
	}

	target := "/board.html"
	if postID > 0 {
		target = detailPath(postID)
	}
	return s.flashAndRedirect(c, sid, "게시글이 작성되었습니다.", target)
}

// PostEditPage renders the edit form prefilled with the current post.
func (s *Server) PostEditPage(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	ctx := c.UserContext()

	postID := queryID(c, "postId")
	if postID == 0 {
		return s.flashAndRedirect(c, sid, "잘못된 요청입니다.", "/board.html")
	}
	post, err := s.api.GetPost(ctx, rec.AccessToken, postID, &rec.UserID)
	if err != nil {
		return s.flashAndRedirect(c, sid, models.ErrorMessage(err), "/board.html")
	}
	if post.AuthorID != rec.UserID {
		return s.flashAndRedirect(c, sid, "본인 게시글만 수정할 수 있습니다.", detailPath(postID))
	}

	flash := s.takeFlash(ctx, sid, rec)
	form := postForm{Title: post.Title, Content: post.Content, HasImage: post.ImageURL != ""}
	action := fmt.Sprintf("/post-edit.html?postId=%d", postID)
	return renderPage(c, "post-edit", postFormView(rec, flash, "게시글 수정", action, form))
}

// UpdatePost saves edits. Without a newly uploaded image the current one is
// kept.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	sid, rec, err := s.requireLogin(c)
	if rec == nil {
		return err
	}
	ctx := c.UserContext()

	postID := queryID(c, "postId")
	if postID == 0 {
		return s.flashAndRedirect(c, sid, "잘못된 요청입니다.", "/board.html")
	}
	action := fmt.Sprintf("/post-edit.html?postId=%d", postID)

	form := postForm{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}
	errs := validation.ValidatePost(form.Title, form.Content)

	imageURL, imgErr := s.formImage(c, "image")
	if imgErr != nil {
		if errs == nil {
			errs = validation.FieldErrors{}
		}
		errs["image"] = models.ErrorMessage(imgErr)
	}
	if errs.Any() {
		form.Errors = errs
		return renderPage(c, "post-edit", postFormView(rec, "", "게시글 수정", action, form))
	}

	if imageURL == "" {
		if current, getErr := s.api.GetPost(ctx, rec.AccessToken, postID, nil); getErr == nil {
			imageURL = current.ImageURL
		}
	}

	err = s.posts.Update(ctx, rec.AccessToken, postID, backend.PostInput{
		Title:    form.Title,
		Content:  form.Content,
		ImageURL: imageURL,
	})
	if err != nil {
		return renderPage(c, "post-edit", postFormView(rec, models.ErrorMessage(err), "게시글 수정", action, form))
	}
	return s.flashAndRedirect(c, sid, "게시글이 수정되었습니다.", detailPath(postID))
}
