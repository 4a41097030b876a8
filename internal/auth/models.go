package auth

import "time"

// MaxLoginHistory is the number of logins kept per user.
const MaxLoginHistory = 8

// User is the account document stored in the users collection.
type User struct {
	Username     string       `bson:"username" json:"username"`
	Password     string       `bson:"password" json:"-"` // bcrypt hash
	Email        string       `bson:"email" json:"email"`
	LoginHistory []LoginEvent `bson:"loginHistory" json:"loginHistory"`
}

// LoginEvent records one successful authentication.
type LoginEvent struct {
	DateTime  time.Time `bson:"dateTime" json:"dateTime"`
	UserAgent string    `bson:"userAgent" json:"userAgent"`
}

// Registration is the register form.
type Registration struct {
	Username  string
	Password  string
	Password2 string
	Email     string
}

// Credentials is the login form plus the client's user agent.
type Credentials struct {
	Username  string
	Password  string
	UserAgent string
}

// pushLogin returns history with ev in front, keeping at most MaxLoginHistory entries.
func pushLogin(history []LoginEvent, ev LoginEvent) []LoginEvent {
	keep := len(history)
	if keep > MaxLoginHistory-1 {
		keep = MaxLoginHistory - 1
	}
	out := make([]LoginEvent, 0, keep+1)
	out = append(out, ev)
	return append(out, history[:keep]...)
}
