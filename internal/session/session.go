// Package session keeps the request identity in a signed cookie.
//
// The cookie value is an HS256 JWT whose "user" claim carries the public user
// fields. Nothing is stored server side; a cookie that fails signature or
// expiry checks is treated exactly like a missing one.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/parkspace/internal/config"
	"github.com/iliyamo/parkspace/internal/model"
)

const DefaultCookieName = "parkspace_session"

// User is the identity snapshot carried in the cookie.
type User struct {
	ID       string     `json:"id"`
	FullName string     `json:"fullName,omitempty"`
	Email    string     `json:"email,omitempty"`
	Role     model.Role `json:"role"`
}

type Payload struct {
	User User `json:"user"`
}

// FromUser builds the payload for a freshly authenticated user.
func FromUser(u *model.User) Payload {
	return Payload{User: User{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}}
}

type claims struct {
	User User `json:"user"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	name   string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager builds a Manager; secure controls the cookie's Secure flag.
func NewManager(cfg config.SessionConfig, secure bool) *Manager {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return &Manager{
		secret: []byte(cfg.Secret),
		name:   name,
		ttl:    cfg.TTL,
		secure: secure,
		now:    time.Now,
	}
}

func (m *Manager) CookieName() string { return m.name }

// Create signs p and wraps it in the session cookie.
func (m *Manager) Create(p Payload) (*http.Cookie, error) {
	if p.User.ID == "" {
		return nil, errors.New("session: payload has no user id")
	}
	now := m.now().UTC()
	exp := now.Add(m.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		User: p.User,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.User.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return nil, err
	}
	return m.cookie(signed, int(m.ttl/time.Second), exp), nil
}

// Read returns the payload carried by r, or nil when the cookie is absent,
// tampered with, expired or malformed.
func (m *Manager) Read(r *http.Request) *Payload {
	ck, err := r.Cookie(m.name)
	if err != nil || ck.Value == "" {
		return nil
	}
	var cl claims
	tok, err := jwt.ParseWithClaims(ck.Value, &cl, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tok.Valid || cl.User.ID == "" || cl.User.ID != cl.Subject {
		return nil
	}
	return &Payload{User: cl.User}
}

// Clear returns a cookie that removes the session in the browser.
func (m *Manager) Clear() *http.Cookie {
	return m.cookie("", -1, time.Unix(0, 0))
}

func (m *Manager) cookie(value string, maxAge int, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
