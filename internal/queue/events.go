package queue

// Routing keys on the auth.events topic exchange.
const (
	Exchange          = "auth.events"
	KeyUserRegistered = "user.registered"
	KeyUserLoggedIn   = "user.loggedin"
	KeyOAuthLoggedIn  = "user.oauth_loggedin"
)

type UserRegistered struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type UserLoggedIn struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type OAuthLoggedIn struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}
