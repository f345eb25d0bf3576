package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fincontrol/internal/auth"
)

type authPageData struct {
	Error string
}

// handleLoginPage renders the sign-in form.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "login_page", authPageData{})
}

// handleLogin exchanges the form credentials for a session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("senha")
	if email == "" || password == "" {
		UnprocessableEntityError("Informe e-mail e senha").Write(w)
		return
	}

	session, err := s.auth.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			UnprocessableEntityError("E-mail ou senha incorretos").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Sign in failed", "error", err)
		InternalServerError("Não foi possível entrar. Tente novamente.").Write(w)
		return
	}

	s.setSessionCookie(w, session)
	if r.Header.Get("HX-Request") == "true" {
		NewHTMXResponse().Header("HX-Redirect", "/").Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSignupPage renders the account creation form.
func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "signup_page", authPageData{})
}

// handleSignup creates the account. The user still signs in afterwards;
// creating an account never sets a session cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("senha")
	if email == "" || password == "" {
		UnprocessableEntityError("Informe e-mail e senha").Write(w)
		return
	}
	if len(password) < 8 {
		UnprocessableEntityError("A senha precisa de pelo menos 8 caracteres").Write(w)
		return
	}

	if _, err := s.auth.SignUp(r.Context(), email, password); err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			UnprocessableEntityError("Este e-mail já está cadastrado").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Sign up failed", "error", err)
		InternalServerError("Não foi possível criar a conta. Tente novamente.").Write(w)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		NewHTMXResponse().
			Header("HX-Redirect", "/login").
			TriggerSuccessNotification("Conta criada. Faça login para continuar.").
			Write(w)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLogout revokes the session remotely and clears the cookie. A
// failed remote revocation still clears the cookie locally.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if err := s.auth.SignOut(r.Context(), cookie.Value); err != nil {
			slog.WarnContext(r.Context(), "Sign out failed", "error", err)
		}
	}

	s.clearSessionCookie(w)
	if r.Header.Get("HX-Request") == "true" {
		NewHTMXResponse().Header("HX-Redirect", "/login").Write(w)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
