// Package auth signs admins in and out. Sessions are HS256 JWTs carried in a
// cookie; sign-out revokes the session id in process.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/metrics"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

const issuer = "visit-tembaro"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrSessionRevoked     = errors.New("session has been signed out")
	ErrUserNotFound       = storage.ErrNotFound
)

// User is a signed-in administrator
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a successful sign-in
type Session struct {
	Token     string
	User      User
	ID        string
	ExpiresAt time.Time
}

// Event is the kind of session change
type Event string

const (
	SignedIn  Event = "signed_in"
	SignedOut Event = "signed_out"
)

// Change is delivered to subscribers
type Change struct {
	Event     Event
	User      User
	SessionID string
	At        time.Time
}

// UserStore looks up and creates administrator accounts
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (id, passwordHash string, err error)
	Create(ctx context.Context, email, passwordHash string) (string, error)
}

type claims struct {
	Email string `json:"email"`
	Sid   string `json:"sid"`
	jwt.RegisteredClaims
}

// Provider issues and verifies admin sessions
type Provider struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	cost   int

	mu          sync.RWMutex
	revoked     map[string]time.Time
	subscribers map[int]func(Change)
	nextSub     int
}

// NewProvider creates a provider signing with secret. Sessions live for ttl.
func NewProvider(users UserStore, secret string, ttl time.Duration) *Provider {
	return &Provider{
		users:       users,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
		cost:        bcrypt.DefaultCost,
		revoked:     make(map[string]time.Time),
		subscribers: make(map[int]func(Change)),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn checks the password and issues a session token
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	id, hash, err := p.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Warn().Str("email", email).Msg("Sign-in for unknown user")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Sign-in with wrong password")
		return nil, ErrInvalidCredentials
	}

	now := p.now()
	session := &Session{
		User:      User{ID: id, Email: email},
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(p.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		Sid:   session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	session.Token, err = token.SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	log.Info().Str("user_id", id).Str("session_id", session.ID).Msg("Admin signed in")
	p.notify(Change{Event: SignedIn, User: session.User, SessionID: session.ID, At: now})
	return session, nil
}

func (p *Provider) parse(token string) (*claims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return c, nil
}

// CurrentUser returns the user behind a valid, unrevoked token
func (p *Provider) CurrentUser(token string) (*User, error) {
	c, err := p.parse(token)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	_, revoked := p.revoked[c.Sid]
	p.mu.RUnlock()
	if revoked {
		return nil, ErrSessionRevoked
	}

	return &User{ID: c.Subject, Email: c.Email}, nil
}

// SignOut revokes the session. Signing out an invalid or expired token is a no-op.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	c, err := p.parse(token)
	if err != nil {
		return nil
	}

	now := p.now()
	p.mu.Lock()
	for sid, exp := range p.revoked {
		if now.After(exp) {
			delete(p.revoked, sid)
		}
	}
	_, already := p.revoked[c.Sid]
	p.revoked[c.Sid] = c.ExpiresAt.Time
	p.mu.Unlock()

	if already {
		return nil
	}

	user := User{ID: c.Subject, Email: c.Email}
	log.Info().Str("user_id", user.ID).Str("session_id", c.Sid).Msg("Admin signed out")
	p.notify(Change{Event: SignedOut, User: user, SessionID: c.Sid, At: now})
	return nil
}

// Subscribe registers fn for session changes and returns a function that removes it
func (p *Provider) Subscribe(fn func(Change)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subscribers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subscribers, id)
		p.mu.Unlock()
	}
}

func (p *Provider) notify(c Change) {
	metrics.SessionEvents.WithLabelValues(string(c.Event)).Inc()

	p.mu.RLock()
	fns := make([]func(Change), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

// CreateUser hashes password and stores a new administrator
func (p *Provider) CreateUser(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", errors.New("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := p.users.Create(ctx, email, string(hash))
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", id).Str("email", email).Msg("Admin user created")
	return id, nil
}
