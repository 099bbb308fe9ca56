package models

// User is the authenticated user as reported by the auth provider. Only the
// fields the dashboard needs are mirrored; the provider owns the rest.
type User struct {
	ID       string                 `json:"id"`
	Email    string                 `json:"email"`
	Role     string                 `json:"role,omitempty"`
	Metadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// Session is the settled auth state exposed to handlers. Ready is false only
// while the initial provider fetch is still pending.
type Session struct {
	User  *User  `json:"user"`
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}
