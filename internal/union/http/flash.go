package http

import (
	"net/http"

	"github.com/aussiebroadwan/aupwu/internal/union/web"
)

const flashCookieName = "aupwu_flash"

// The flash cookie carries only a key into this table, so a forged cookie
// can never inject text into a page.
type flashKey string

const (
	flashMissingCredentials flashKey = "missing_credentials"
	flashInvalidCredentials flashKey = "invalid_credentials"
	flashLoginOK            flashKey = "login_ok"
	flashMissingFields      flashKey = "missing_fields"
	flashUsernameTaken      flashKey = "username_taken"
	flashEmailTaken         flashKey = "email_taken"
	flashRegistered         flashKey = "registered"
	flashUnauthorized       flashKey = "unauthorized"
	flashLoginRequired      flashKey = "login_required"
	flashLoggedOut          flashKey = "logged_out"
)

var flashes = map[flashKey]web.Flash{
	flashMissingCredentials: {Category: "danger", Message: "Please provide both username and password"},
	flashInvalidCredentials: {Category: "danger", Message: "Invalid username or password"},
	flashLoginOK:            {Category: "success", Message: "Login successful!"},
	flashMissingFields:      {Category: "danger", Message: "All fields are required"},
	flashUsernameTaken:      {Category: "danger", Message: "Username already exists"},
	flashEmailTaken:         {Category: "danger", Message: "Email already exists"},
	flashRegistered:         {Category: "success", Message: "Registration successful! You can now log in."},
	flashUnauthorized:       {Category: "danger", Message: "Unauthorized access"},
	flashLoginRequired:      {Category: "danger", Message: "Please log in to access your dashboard"},
	flashLoggedOut:          {Category: "info", Message: "You have been logged out"},
}

// setFlash queues k for the next rendered page.
func (r *Router) setFlash(w http.ResponseWriter, k flashKey) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    string(k),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns the queued flash, if any, and clears it.
func (r *Router) takeFlash(w http.ResponseWriter, req *http.Request) []web.Flash {
	c, err := req.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	f, ok := flashes[flashKey(c.Value)]
	if !ok {
		return nil
	}
	return []web.Flash{f}
}
