package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/askloop/forum/internal/render"
	"github.com/askloop/forum/internal/services"
	"github.com/askloop/forum/internal/store"
	"github.com/askloop/forum/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgBadCredentials   = "Wrong email or password, please check and try again."
	msgEmailTaken       = "This email is already registered, use a different one or try logging in."
	msgPasswordMismatch = "The two passwords you entered do not match."
	msgMissingFields    = "All fields are required."
)

// AuthHandler serves the login, registration and logout pages.
type AuthHandler struct {
	userService *services.UserService
	sessions    *Sessions
	renderer    *render.Renderer
	log         zerolog.Logger
}

func NewAuthHandler(userService *services.UserService, sessions *Sessions, renderer *render.Renderer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		renderer:    renderer,
		log:         log,
	}
}

// AuthRouter registers the auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, sessions *Sessions, renderer *render.Renderer, log zerolog.Logger) {
	handler := NewAuthHandler(userService, sessions, renderer, log)

	r.Get("/login/", handler.LoginForm)
	r.Post("/login/", handler.Login)
	r.Get("/register/", handler.RegisterForm)
	r.Post("/register/", handler.Register)
	r.Get("/logout/", handler.Logout)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", pageData(r.Context()))
}

// Login verifies the submitted credentials and establishes a session. Both
// an unknown email and a wrong password re-render the form with the same
// message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	remember := r.PostFormValue("remember_me") == "on"

	user, err := h.userService.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.loginError(w, r, msgBadCredentials)
			return
		}
		h.serverError(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.loginError(w, r, msgBadCredentials)
		return
	}

	if err := h.sessions.Issue(w, user.ID, remember); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", pageData(r.Context()))
}

// Register creates a new account. The duplicate-email check rides on the
// unique constraint of users.email, so two concurrent registrations with the
// same address cannot both succeed.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	username := strings.TrimSpace(r.PostFormValue("username"))
	passwordSet := r.PostFormValue("password_set")
	passwordConfirm := r.PostFormValue("password_confirm")

	if email == "" || username == "" || passwordSet == "" {
		h.registerError(w, r, http.StatusBadRequest, msgMissingFields)
		return
	}
	if passwordSet != passwordConfirm {
		h.registerError(w, r, http.StatusBadRequest, msgPasswordMismatch)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(passwordSet), bcrypt.DefaultCost)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	_, err = h.userService.Create(r.Context(), types.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			h.registerError(w, r, http.StatusConflict, msgEmailTaken)
			return
		}
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

// Logout clears the session cookie and sends the user back to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

func (h *AuthHandler) loginError(w http.ResponseWriter, r *http.Request, message string) {
	data := pageData(r.Context())
	data.Error = message
	h.render(w, r, http.StatusUnauthorized, "login.html", data)
}

func (h *AuthHandler) registerError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := pageData(r.Context())
	data.Error = message
	h.render(w, r, status, "register.html", data)
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data render.Data) {
	if err := h.renderer.HTML(w, status, page, data); err != nil {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("render failed")
	}
}

func (h *AuthHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error().Err(err).Str("path", r.URL.Path).Msg("handler error")
	h.render(w, r, http.StatusInternalServerError, "error.html", pageData(r.Context()))
}
