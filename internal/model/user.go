package model

import "strings"

// Role is the access level the backend assigns to a user.  It decides
// which dashboard a user lands on and which API scopes they may call.
type Role string

const (
	RoleClient    Role = "CLIENT"
	RoleOperative Role = "OPERATIVE"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole normalizes a raw role string.  Unknown values report false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleClient, RoleOperative, RoleAdmin:
		return r, true
	}
	return "", false
}

// Home returns the dashboard path for the role.  Unknown roles go back to
// the landing page.
func (r Role) Home() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleOperative:
		return "/operator"
	case RoleClient:
		return "/client"
	}
	return "/"
}

// User mirrors the backend's user representation as returned by
// /users/me and /admin/clients.
//
// Fields:
//
//	ID          – users.id_user, generated by the backend.
//	Name        – display name.
//	Email       – unique login email (lower-cased by the backend).
//	Role        – CLIENT, OPERATIVE or ADMIN.
//	PhoneNumber – optional contact number.
//	Address     – optional postal address.
//	CreatedAt   – creation timestamp.
type User struct {
	ID          uint64    `json:"id_user"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// UserInput is the payload for creating or updating a user from the admin
// dashboard.  Password is only sent on create.
type UserInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	Role        Role   `json:"role,omitempty"`
}

// RegisterInput is the self-service signup payload sent to /register.
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Token is the bearer credential issued by /login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
