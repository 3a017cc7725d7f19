package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/internal/union/store/drivers/sqlite"
	"github.com/aussiebroadwan/aupwu/pkg/jwtx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// backends returns one of each Backend with a member and an admin already
// present in the user table.
func backends(t *testing.T) (map[string]Backend, domain.Identity, domain.Identity) {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	alice, err := st.Users().CreateUser(ctx, domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h", Role: domain.RoleMember})
	require.NoError(t, err)
	admin, err := st.Users().CreateUser(ctx, domain.User{Username: "admin", Email: "admin@aupwu.org", PasswordHash: "h", Role: domain.RoleAdmin})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return map[string]Backend{
		"sql":   &SQLBackend{Store: st},
		"redis": NewRedisBackend(rdb, "", time.Hour),
	}, alice.Identity(), admin.Identity()
}

func newManager(t *testing.T, b Backend) *Manager {
	t.Helper()
	signer, err := jwtx.NewHS256("aupwu_secret_key", "aupwu")
	require.NoError(t, err)
	return &Manager{Backend: b, Signer: signer}
}

// follow builds a request carrying whatever cookies rec set, on top of the
// cookies prev already had.
func follow(prev *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	jar := map[string]*http.Cookie{}
	if prev != nil {
		for _, c := range prev.Cookies() {
			jar[c.Name] = c
		}
	}
	if rec != nil {
		for _, c := range rec.Result().Cookies() {
			if c.MaxAge < 0 {
				delete(jar, c.Name)
				continue
			}
			jar[c.Name] = c
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range jar {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r
}

func TestManagerLifecycle(t *testing.T) {
	all, alice, admin := backends(t)

	for name, b := range all {
		t.Run(name, func(t *testing.T) {
			m := newManager(t, b)

			anon := httptest.NewRequest(http.MethodGet, "/", nil)
			st, err := m.Current(anon)
			require.NoError(t, err)
			require.False(t, st.Authenticated())
			require.Equal(t, domain.RoleNone, st.Role())
			_, ok := st.UserID()
			require.False(t, ok)

			rec := httptest.NewRecorder()
			require.NoError(t, m.Login(rec, anon, alice))

			cookie := rec.Result().Cookies()[0]
			require.Equal(t, DefaultCookieName, cookie.Name)
			require.True(t, cookie.HttpOnly)
			require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

			authed := follow(anon, rec)
			st, err = m.Current(authed)
			require.NoError(t, err)
			require.Equal(t, domain.RoleMember, st.Role())
			uid, ok := st.UserID()
			require.True(t, ok)
			require.Equal(t, alice.ID, uid)
			require.Equal(t, "alice", st.Username())

			// Logging in again on the same request replaces the session and
			// the old token stops resolving.
			rec2 := httptest.NewRecorder()
			require.NoError(t, m.Login(rec2, authed, admin))
			st, err = m.Current(authed)
			require.NoError(t, err)
			require.False(t, st.Authenticated(), "previous session must be destroyed")

			again := follow(authed, rec2)
			st, err = m.Current(again)
			require.NoError(t, err)
			require.Equal(t, domain.RoleAdmin, st.Role())

			// Logout twice.
			out := httptest.NewRecorder()
			require.NoError(t, m.Logout(out, again))
			require.Equal(t, -1, out.Result().Cookies()[0].MaxAge)
			require.NoError(t, m.Logout(httptest.NewRecorder(), again))

			st, err = m.Current(again)
			require.NoError(t, err)
			require.Equal(t, domain.RoleNone, st.Role())
			_, ok = st.UserID()
			require.False(t, ok)

			require.NoError(t, m.Logout(httptest.NewRecorder(), anon), "anonymous logout is a no-op")
		})
	}
}

func TestManagerRejectsTamperedCookie(t *testing.T) {
	all, alice, _ := backends(t)
	m := newManager(t, all["sql"])

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, httptest.NewRequest(http.MethodGet, "/", nil), alice))
	good := rec.Result().Cookies()[0].Value

	for _, v := range []string{good + "x", "garbage", good[:len(good)-4]} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: v})

		st, err := m.Current(r)
		require.NoError(t, err)
		require.False(t, st.Authenticated())
	}

	other, err := jwtx.NewHS256("another-secret", "aupwu")
	require.NoError(t, err)
	forged, err := other.Sign("some-token", 0)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: forged})
	st, err := m.Current(r)
	require.NoError(t, err)
	require.False(t, st.Authenticated())
}

func TestManagerCookieMaxAge(t *testing.T) {
	all, alice, _ := backends(t)
	m := newManager(t, all["redis"])
	m.MaxAge = 30 * time.Minute
	m.Secure = true

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, httptest.NewRequest(http.MethodGet, "/", nil), alice))

	c := rec.Result().Cookies()[0]
	require.Equal(t, 1800, c.MaxAge)
	require.True(t, c.Secure)
}

func TestMiddlewareStoresState(t *testing.T) {
	all, alice, _ := backends(t)
	m := newManager(t, all["sql"])

	var seen State
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.False(t, seen.Authenticated())

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, httptest.NewRequest(http.MethodGet, "/", nil), alice))

	h.ServeHTTP(httptest.NewRecorder(), follow(nil, rec))
	require.True(t, seen.Authenticated())
	require.Equal(t, domain.RoleMember, seen.Role())
}

type brokenBackend struct{ Backend }

func (brokenBackend) Get(context.Context, string) (domain.Identity, error) {
	return domain.Identity{}, ErrRedisUnavailable
}

func TestMiddlewareFailsClosedOnBackendError(t *testing.T) {
	all, alice, _ := backends(t)
	m := newManager(t, all["redis"])

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, httptest.NewRequest(http.MethodGet, "/", nil), alice))

	m.Backend = brokenBackend{m.Backend}
	called := false
	h := m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	out := httptest.NewRecorder()
	h.ServeHTTP(out, follow(nil, rec))
	require.Equal(t, http.StatusInternalServerError, out.Code)
	require.False(t, called)
}
