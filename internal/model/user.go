package model

// User is the identity returned by the backend on login or registration.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthSession is the current identity plus its bearer credential. A zero
// value is the anonymous session.
type AuthSession struct {
	User  *User  `json:"user"`
	Token string `json:"-"`
}

// Anonymous reports whether no user is signed in.
func (s AuthSession) Anonymous() bool {
	return s.User == nil
}

// SameIdentity compares the user identity of two sessions, ignoring tokens.
func (s AuthSession) SameIdentity(o AuthSession) bool {
	if s.User == nil || o.User == nil {
		return s.User == nil && o.User == nil
	}
	return *s.User == *o.User
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both auth endpoints.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
