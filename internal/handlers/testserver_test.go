package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/askloop/forum/config"
	"github.com/askloop/forum/internal/render"
	"github.com/askloop/forum/internal/services"
	"github.com/askloop/forum/internal/store"
	"github.com/askloop/forum/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// In-memory repositories implementing the service interfaces, so handler
// tests exercise the full middleware and routing stack without a database.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]types.User)}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrEmailTaken
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	nextID    int
	questions []types.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{nextID: 1}
}

func (f *fakeQuestionRepo) List(_ context.Context) ([]types.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked(func(types.Question) bool { return true }), nil
}

func (f *fakeQuestionRepo) Search(_ context.Context, term string) ([]types.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lower := strings.ToLower(term)
	return f.sortedLocked(func(q types.Question) bool {
		return strings.Contains(strings.ToLower(q.Title), lower) ||
			strings.Contains(strings.ToLower(q.Content), lower)
	}), nil
}

func (f *fakeQuestionRepo) Get(_ context.Context, id int) (types.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return types.Question{}, store.ErrNotFound
}

func (f *fakeQuestionRepo) Create(_ context.Context, question types.Question) (types.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	question.ID = f.nextID
	f.nextID++
	question.CreatedAt = time.Now()
	f.questions = append(f.questions, question)
	return question, nil
}

// seed inserts a question with an explicit creation time, for order tests.
func (f *fakeQuestionRepo) seed(q types.Question) types.Question {
	f.mu.Lock()
	defer f.mu.Unlock()
	q.ID = f.nextID
	f.nextID++
	f.questions = append(f.questions, q)
	return q
}

func (f *fakeQuestionRepo) sortedLocked(keep func(types.Question) bool) []types.Question {
	out := make([]types.Question, 0)
	for _, q := range f.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int
	comments []types.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (f *fakeCommentRepo) ListByQuestion(_ context.Context, questionID int) ([]types.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Comment, 0)
	for _, c := range f.comments {
		if c.QuestionID == questionID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeCommentRepo) Create(_ context.Context, comment types.Comment) (types.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.ID = f.nextID
	f.nextID++
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, comment)
	return comment, nil
}

type testApp struct {
	router    http.Handler
	users     *fakeUserRepo
	questions *fakeQuestionRepo
	comments  *fakeCommentRepo
	sessions  *Sessions
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	renderer, err := render.New()
	require.NoError(t, err)

	users := newFakeUserRepo()
	questions := newFakeQuestionRepo()
	comments := newFakeCommentRepo()

	userService := services.NewUserService(users)
	questionService := services.NewQuestionService(questions)
	commentService := services.NewCommentService(comments)

	sessions := NewSessions(userService, config.SessionConfig{
		Secret:      "test-secret",
		TTL:         24 * time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	})

	log := zerolog.Nop()
	router := chi.NewRouter()
	router.Use(sessions.CurrentUser)
	AuthRouter(router, userService, sessions, renderer, log)
	ForumRouter(router, questionService, commentService, renderer, log)

	return &testApp{
		router:    router,
		users:     users,
		questions: questions,
		comments:  comments,
		sessions:  sessions,
	}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) postForm(path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

// seedUser creates an account directly in the fake store with a real bcrypt
// hash, bypassing the registration form.
func (a *testApp) seedUser(t *testing.T, email, username, password string) types.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := a.users.Create(context.Background(), types.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashed),
	})
	require.NoError(t, err)
	return user
}

// login posts the login form and returns the session cookie it set.
func (a *testApp) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rec := a.postForm("/login/", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	return cookie
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}
