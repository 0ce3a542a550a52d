// Package identity represents the hosted identity provider's signed-in user
// as a read-only value handed to the code that needs it.
package identity

const RoleAdmin = "admin"

type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Anonymous is the session of a visitor who has not signed in.
var Anonymous = Session{}

func (s Session) SignedIn() bool {
	return s.UserID != ""
}

func (s Session) IsAdmin() bool {
	return s.SignedIn() && s.Role == RoleAdmin
}
