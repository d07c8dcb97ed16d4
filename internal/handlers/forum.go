package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/askloop/forum/internal/render"
	"github.com/askloop/forum/internal/services"
	"github.com/askloop/forum/internal/store"
	"github.com/askloop/forum/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	msgMissingQuestion = "Both a title and content are required."
	msgMissingComment  = "A comment cannot be empty."
)

// ForumHandler serves the question listing, detail, search and posting
// pages.
type ForumHandler struct {
	questionService *services.QuestionService
	commentService  *services.CommentService
	renderer        *render.Renderer
	log             zerolog.Logger
}

func NewForumHandler(questionService *services.QuestionService, commentService *services.CommentService, renderer *render.Renderer, log zerolog.Logger) *ForumHandler {
	return &ForumHandler{
		questionService: questionService,
		commentService:  commentService,
		renderer:        renderer,
		log:             log,
	}
}

// ForumRouter registers the forum routes on the given router. Question
// creation and commenting sit behind RequireUser.
func ForumRouter(r chi.Router, questionService *services.QuestionService, commentService *services.CommentService, renderer *render.Renderer, log zerolog.Logger) {
	handler := NewForumHandler(questionService, commentService, renderer, log)

	r.Get("/", handler.Index)
	r.Get("/search/", handler.Search)
	r.Get("/detail/{questionID}/", handler.Detail)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/question/", handler.QuestionForm)
		r.Post("/question/", handler.CreateQuestion)
		r.Post("/add_comment/", handler.AddComment)
	})
}

// Index lists all questions, newest first.
func (h *ForumHandler) Index(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionService.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := pageData(r.Context())
	data.Questions = questions
	h.render(w, r, http.StatusOK, "index.html", data)
}

// Search renders the index page filtered by the q parameter. A blank query
// behaves like the plain listing.
func (h *ForumHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	questions, err := h.questionService.Search(r.Context(), query)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := pageData(r.Context())
	data.Questions = questions
	data.Query = query
	h.render(w, r, http.StatusOK, "index.html", data)
}

func (h *ForumHandler) QuestionForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "question.html", pageData(r.Context()))
}

// CreateQuestion posts a new question. The author always comes from the
// resolved identity, never from the form.
func (h *ForumHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	title := strings.TrimSpace(r.PostFormValue("title"))
	content := strings.TrimSpace(r.PostFormValue("content"))
	if title == "" || content == "" {
		data := pageData(r.Context())
		data.Error = msgMissingQuestion
		h.render(w, r, http.StatusBadRequest, "question.html", data)
		return
	}

	_, err := h.questionService.Create(r.Context(), types.Question{
		Title:    title,
		Content:  content,
		AuthorID: user.ID,
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Detail shows a single question with its comments, newest comment first.
// An unknown or malformed id renders the not-found page.
func (h *ForumHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "questionID"))
	if err != nil || id < 1 {
		h.notFound(w, r)
		return
	}

	question, err := h.questionService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	comments, err := h.commentService.ListByQuestion(r.Context(), id)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := pageData(r.Context())
	data.Question = question
	data.Comments = comments
	h.render(w, r, http.StatusOK, "detail.html", data)
}

// AddComment attaches a comment to the question named by the form and sends
// the user back to its detail page.
func (h *ForumHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	questionID, err := strconv.Atoi(r.PostFormValue("question_id"))
	if err != nil || questionID < 1 {
		h.notFound(w, r)
		return
	}

	question, err := h.questionService.Get(r.Context(), questionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	content := strings.TrimSpace(r.PostFormValue("comment"))
	if content == "" {
		comments, err := h.commentService.ListByQuestion(r.Context(), questionID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		data := pageData(r.Context())
		data.Question = question
		data.Comments = comments
		data.Error = msgMissingComment
		h.render(w, r, http.StatusBadRequest, "detail.html", data)
		return
	}

	_, err = h.commentService.Create(r.Context(), types.Comment{
		Content:    content,
		QuestionID: question.ID,
		AuthorID:   user.ID,
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/detail/%d/", question.ID), http.StatusSeeOther)
}

func (h *ForumHandler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound.html", pageData(r.Context()))
}

func (h *ForumHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data render.Data) {
	if err := h.renderer.HTML(w, status, page, data); err != nil {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("render failed")
	}
}

func (h *ForumHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error().Err(err).Str("path", r.URL.Path).Msg("handler error")
	h.render(w, r, http.StatusInternalServerError, "error.html", pageData(r.Context()))
}
