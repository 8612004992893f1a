package model

// Identity is the authenticated user as reported by the backend
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"accountType"`
}

// DisplayName returns the name to show in the UI, falling back to the email
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

// Credentials is the login payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the new-account payload
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"accountType"`
}

// AuthResult is returned by login and register
type AuthResult struct {
	Token string   `json:"token"`
	Type  string   `json:"type,omitempty"` // "Bearer"
	User  Identity `json:"user"`
}

// Profile is the editable part of a user account
type Profile struct {
	Identity
	Phone           string   `json:"phone,omitempty"`
	Location        string   `json:"location,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	IsActive        bool     `json:"isActive"`
	IsEmailVerified bool     `json:"isEmailVerified"`
}

// ProfileUpdate carries the fields a user may change on their own profile
type ProfileUpdate struct {
	Name     string   `json:"name,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// PasswordChange is the payload for changing the current user's password
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
