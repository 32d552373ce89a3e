package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "this-is-a-valid-session-secret-32-chars-long"

type memUsers struct {
	mu    sync.Mutex
	users map[string][2]string
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return "", "", ErrUserNotFound
	}
	return u[0], u[1], nil
}

func (m *memUsers) Create(_ context.Context, email, hash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.users[email] = [2]string{id, hash}
	return id, nil
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p := NewProvider(&memUsers{users: map[string][2]string{}}, testSecret, time.Hour)
	p.cost = bcrypt.MinCost
	_, err := p.CreateUser(context.Background(), " Admin@Tembaro.et ", "correct horse")
	require.NoError(t, err)
	return p
}

func TestSignInAndCurrentUser(t *testing.T) {
	p := newTestProvider(t)

	session, err := p.SignIn(context.Background(), "admin@tembaro.et", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "admin@tembaro.et", session.User.Email)

	user, err := p.CurrentUser(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User, *user)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SignIn(ctx, "admin@tembaro.et", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@tembaro.et", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentUserRejectsBadTokens(t *testing.T) {
	p := newTestProvider(t)
	session, err := p.SignIn(context.Background(), "admin@tembaro.et", "correct horse")
	require.NoError(t, err)

	other := NewProvider(&memUsers{users: map[string][2]string{}}, "another-secret-that-is-also-long-enough", time.Hour)
	_, err = other.CurrentUser(session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated, "signed by another secret")

	_, err = p.CurrentUser("")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = p.CurrentUser("not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		Sid:              "x",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = p.CurrentUser(unsigned)
	assert.ErrorIs(t, err, ErrUnauthenticated, "alg none")
}

func TestExpiredSession(t *testing.T) {
	p := newTestProvider(t)
	session, err := p.SignIn(context.Background(), "admin@tembaro.et", "correct horse")
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.CurrentUser(session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSignOutRevokes(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		changes []Event
	)
	unsubscribe := p.Subscribe(func(c Change) {
		mu.Lock()
		changes = append(changes, c.Event)
		mu.Unlock()
	})

	session, err := p.SignIn(ctx, "admin@tembaro.et", "correct horse")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx, session.Token))
	require.NoError(t, p.SignOut(ctx, session.Token), "second sign-out is a no-op")

	_, err = p.CurrentUser(session.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	unsubscribe()
	_, err = p.SignIn(ctx, "admin@tembaro.et", "correct horse")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Event{SignedIn, SignedOut}, changes)
}

func TestSignOutIgnoresGarbage(t *testing.T) {
	p := newTestProvider(t)
	assert.NoError(t, p.SignOut(context.Background(), "garbage"))
}

func TestRequireUser(t *testing.T) {
	p := newTestProvider(t)
	session, err := p.SignIn(context.Background(), "admin@tembaro.et", "correct horse")
	require.NoError(t, err)

	var seen *User
	h := p.RequireUser("/admin/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no cookie redirects", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/news", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/login?next=%2Fadmin%2Fnews", rec.Header().Get("Location"))
	})

	t.Run("valid cookie passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "admin@tembaro.et", seen.Email)
	})
}

func TestSetCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, &Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}
