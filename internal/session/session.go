// Package session keeps the logged-in user in a signed cookie.
package session

import (
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/EmpoweredVote/lego-catalog/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

const (
	// MaxUserAgent bounds each history entry copied into the cookie.
	MaxUserAgent = 200
	// maxCookieValue keeps the whole Set-Cookie line under the 4096 bytes browsers accept.
	maxCookieValue = 3800
)

var (
	ErrInvalidSession  = errors.New("invalid session")
	ErrSessionTooLarge = errors.New("session does not fit in a cookie")
)

// User is the snapshot of the account copied into the session at login.
// It is not refreshed when the stored history changes.
type User struct {
	Username     string            `json:"username"`
	Email        string            `json:"email"`
	LoginHistory []auth.LoginEvent `json:"loginHistory"`
}

// FromAccount copies the fields the views need out of a stored user. User agents
// longer than MaxUserAgent are cut short.
func FromAccount(u auth.User) User {
	history := make([]auth.LoginEvent, len(u.LoginHistory))
	for i, ev := range u.LoginHistory {
		ev.UserAgent = truncate(ev.UserAgent, MaxUserAgent)
		history[i] = ev
	}
	return User{
		Username:     u.Username,
		Email:        u.Email,
		LoginHistory: history,
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

type Claims struct {
	jwt.RegisteredClaims
	User User `json:"user"`
}

// Manager signs and verifies session cookies with an HMAC secret.
type Manager struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

func NewManager(secret string, duration time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		duration: duration,
		now:      time.Now,
	}
}

// Save writes a fresh session cookie for u.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, u User) error {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
		User: u,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}
	if len(signed) > maxCookieValue {
		return ErrSessionTooLarge
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.duration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return nil
}

// Load returns the session user, or nil when the request carries no session cookie.
func (m *Manager) Load(r *http.Request) (*User, error) {
	cookie, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidSession
	}
	return &claims.User, nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
