package models

// User is the optional profile info returned at login.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Session is the current authentication state. Token presence implies
// "authenticated"; admin-only actions must fail fast without it.
type Session struct {
	Token string
	User  *User
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}
