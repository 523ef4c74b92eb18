package entity

import (
	"time"
)

const RoleAdmin = "admin"

type User struct {
	ID        string    `json:"id" firestore:"id"`
	Email     string    `json:"email" firestore:"email"`
	Name      string    `json:"name,omitempty" firestore:"name,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Role      string    `json:"role" firestore:"role"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the authenticated caller, resolved once per request by the
// auth middleware and handed to every use case.
type Identity struct {
	UID      string
	Name     string
	Email    string
	PhotoURL string
	IsAdmin  bool
}

// DisplayName falls back to the email local part, then to "User".
func (i *Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if local := EmailLocalPart(i.Email); local != "" {
		return local
	}
	return "User"
}
