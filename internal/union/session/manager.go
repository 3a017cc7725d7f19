package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/pkg/cryptox"
	"github.com/aussiebroadwan/aupwu/pkg/jwtx"
	"github.com/aussiebroadwan/aupwu/pkg/slogx"
)

const DefaultCookieName = "aupwu_session"

// Manager moves requests between the Anonymous and Authenticated states.
// The cookie holds a signed JWT wrapping a random token; the backend only
// ever sees the token's fingerprint. The manager applies no expiry of its
// own: MaxAge bounds the cookie, and backends use it as they see fit.
type Manager struct {
	Backend    Backend
	Signer     *jwtx.HS256
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

func (m *Manager) cookieName() string {
	if m.CookieName == "" {
		return DefaultCookieName
	}
	return m.CookieName
}

// Login starts a fresh session for id, destroying any session the request
// already carries.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, id domain.Identity) error {
	ctx := r.Context()

	if err := m.destroy(r); err != nil {
		return err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}
	if err := m.Backend.Save(ctx, cryptox.FingerprintToken(token), id); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	signed, err := m.Signer.Sign(token, m.MaxAge)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	c := m.baseCookie(signed)
	if m.MaxAge > 0 {
		c.MaxAge = int(m.MaxAge.Seconds())
	}
	http.SetCookie(w, c)

	slogx.FromContext(ctx).Info("session started",
		slog.Int64("user_id", id.ID),
		slog.String("role", id.Role.String()),
	)
	return nil
}

// Logout destroys the request's session and expires the cookie. Logging out
// an anonymous request succeeds.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	if err := m.destroy(r); err != nil {
		return err
	}

	c := m.baseCookie("")
	c.MaxAge = -1
	http.SetCookie(w, c)
	return nil
}

// Current resolves the request's State. A missing, tampered or unknown
// cookie is Anonymous; only backend failures are returned as errors.
func (m *Manager) Current(r *http.Request) (State, error) {
	key, ok := m.key(r)
	if !ok {
		return Anonymous, nil
	}

	id, err := m.Backend.Get(r.Context(), key)
	if errors.Is(err, ErrNoSession) {
		return Anonymous, nil
	}
	if err != nil {
		return Anonymous, fmt.Errorf("load session: %w", err)
	}
	return Authenticated(id), nil
}

// Middleware resolves the State once per request and stores it in the
// request context for FromContext.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := m.Current(r)
		if err != nil {
			slogx.FromContext(r.Context()).Error("failed to load session", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		ctx := WithState(r.Context(), st)
		if uid, ok := st.UserID(); ok {
			ctx = slogx.With(ctx, "user_id", uid)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) destroy(r *http.Request) error {
	key, ok := m.key(r)
	if !ok {
		return nil
	}
	if err := m.Backend.Delete(r.Context(), key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// key extracts the backend key from the cookie, if the cookie verifies.
func (m *Manager) key(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cookieName())
	if err != nil || c.Value == "" {
		return "", false
	}

	token, err := m.Signer.Verify(c.Value)
	if err != nil {
		slogx.FromContext(r.Context()).Debug("rejected session cookie", slog.Any("error", err))
		return "", false
	}
	return cryptox.FingerprintToken(token), true
}

func (m *Manager) baseCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName(),
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
