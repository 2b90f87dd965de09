package model

// User is the authenticated caller's profile as returned by the upstream
// identity endpoint.  The gateway never authenticates users itself and never
// stores credentials; it forwards the caller's bearer token and reads back
// whatever profile the upstream reports.  Only Username and Phone feed into
// reservation submissions.
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone"`
	Role     string `json:"role,omitempty"`
}
