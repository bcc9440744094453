// Package session remembers which user is logged in. The browser only holds a signed token with
// the session id, the user itself stays in a Store on the server side.
package session

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"gitlab.com/dirk.krummacker/contact-book/internal/apperr"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// CookieName is the name of the cookie that carries the session token.
const CookieName = "contactbook_session"

type userKey struct{}

type claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Manager issues and resolves sessions.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session manager. Tokens are signed with secret and sessions expire after
// ttl.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// WithUser returns a copy of ctx that carries the session user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom returns the session user of a request context.
func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey{}).(*model.User)
	return user, ok && user != nil
}

// Middleware loads the session user of every request into the request context. Requests without
// a valid session are passed on anonymously.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := m.sessionID(c)
		if !ok {
			c.Next()
			return
		}
		user, err := m.store.Get(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.Next()
			return
		}
		if err != nil {
			_ = c.Error(errors.Wrap(err, "load session"))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// RequireUser stops requests without a session user with apperr.ErrNotAuthorized.
func (m *Manager) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFrom(c.Request.Context()); !ok {
			_ = c.Error(apperr.ErrNotAuthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Login starts a new session for the user and hands the token to the browser. A session the
// request already had is ended first.
func (m *Manager) Login(c *gin.Context, user *model.User) error {
	if previous, ok := m.sessionID(c); ok {
		if err := m.store.Delete(c.Request.Context(), previous); err != nil {
			return errors.Wrap(err, "delete previous session")
		}
	}
	id := uuid.NewString()
	if err := m.store.Set(c.Request.Context(), id, user, m.ttl); err != nil {
		return errors.Wrap(err, "store session")
	}
	token, err := m.sign(id)
	if err != nil {
		return errors.Wrap(err, "sign session token")
	}
	c.SetCookie(CookieName, token, m.maxAge(), "/", "", false, true)
	return nil
}

// Logout ends the session of the request, if there is one, and removes the cookie.
func (m *Manager) Logout(c *gin.Context) error {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	id, ok := m.sessionID(c)
	if !ok {
		return nil
	}
	if err := m.store.Delete(c.Request.Context(), id); err != nil {
		return errors.Wrap(err, "delete session")
	}
	return nil
}

func (m *Manager) maxAge() int {
	if m.ttl <= 0 {
		return 0
	}
	return int(m.ttl / time.Second)
}

func (m *Manager) sign(id string) (string, error) {
	c := claims{SessionID: id}
	if m.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(m.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// sessionID reads the session id from the request cookie. Missing, expired and forged tokens all
// count as no session.
func (m *Manager) sessionID(c *gin.Context) (string, bool) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return "", false
	}
	var parsed claims
	_, err = jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || parsed.SessionID == "" {
		return "", false
	}
	return parsed.SessionID, true
}
