package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/internal/union/service"
	"github.com/aussiebroadwan/aupwu/internal/union/web"
	"github.com/aussiebroadwan/aupwu/pkg/httpx"
	"github.com/aussiebroadwan/aupwu/pkg/slogx"
)

// handleLogin godoc
//
//	@Summary		Log in
//	@Description	Verifies the credentials, starts a session and redirects to the dashboard for the user's role.
//	@Description	Missing fields or bad credentials re-render the login form with a message.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		html
//	@Param			username	formData	string	true	"Username"
//	@Param			password	formData	string	true	"Password"
//	@Success		303			{string}	string	"Redirect to the role dashboard, session cookie set"
//	@Success		200			{string}	string	"Login form with an error message"
//	@Failure		429			{string}	string	"Too many attempts"
//	@Router			/login [post]
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	username := req.PostForm.Get("username")
	password := req.PostForm.Get("password")

	retry := func(k flashKey) {
		r.render(w, req, http.StatusOK, web.PageLogin, web.Page{
			Title:   "Login",
			Flashes: []web.Flash{flashes[k]},
			Form:    map[string]string{"username": username},
		})
	}

	if username == "" || password == "" {
		retry(flashMissingCredentials)
		return
	}

	id, err := r.Credentials.VerifyCredentials(req.Context(), username, password)
	switch {
	case errors.Is(err, service.ErrNoMatch):
		retry(flashInvalidCredentials)
		return
	case err != nil:
		serverError(w, req, "failed to verify credentials", err)
		return
	}

	if err := r.Sessions.Login(w, req, id); err != nil {
		serverError(w, req, "failed to start session", err)
		return
	}

	r.setFlash(w, flashLoginOK)
	httpx.SeeOther(w, req, homeFor(id.Role))
}

// handleRegister godoc
//
//	@Summary		Register
//	@Description	Creates a member account and redirects to the login page.
//	@Description	Missing fields or a taken username/email re-render the form with a message.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		html
//	@Param			username	formData	string	true	"Username"
//	@Param			email		formData	string	true	"Email"
//	@Param			password	formData	string	true	"Password"
//	@Success		303			{string}	string	"Redirect to /login"
//	@Success		200			{string}	string	"Registration form with an error message"
//	@Failure		429			{string}	string	"Too many attempts"
//	@Router			/register [post]
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	username := req.PostForm.Get("username")
	email := req.PostForm.Get("email")
	password := req.PostForm.Get("password")

	retry := func(k flashKey) {
		r.render(w, req, http.StatusOK, web.PageRegister, web.Page{
			Title:   "Register",
			Flashes: []web.Flash{flashes[k]},
			Form:    map[string]string{"username": username, "email": email},
		})
	}

	id, err := r.Credentials.CreateUser(req.Context(), username, email, password, domain.RoleMember)
	switch {
	case errors.Is(err, service.ErrMissingField):
		retry(flashMissingFields)
		return
	case errors.Is(err, service.ErrDuplicateUsername):
		retry(flashUsernameTaken)
		return
	case errors.Is(err, service.ErrDuplicateEmail):
		retry(flashEmailTaken)
		return
	case err != nil:
		serverError(w, req, "failed to register user", err)
		return
	}

	slogx.FromContext(req.Context()).Info("user registered", slog.Int64("user_id", id.ID))
	r.setFlash(w, flashRegistered)
	httpx.SeeOther(w, req, "/login")
}

// handleLogout godoc
//
//	@Summary		Log out
//	@Description	Ends the session, if any, and redirects to the landing page.
//	@Tags			Auth
//	@Success		302	{string}	string	"Redirect to /"
//	@Router			/logout [get]
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	if err := r.Sessions.Logout(w, req); err != nil {
		serverError(w, req, "failed to end session", err)
		return
	}
	r.setFlash(w, flashLoggedOut)
	http.Redirect(w, req, "/", http.StatusFound)
}
