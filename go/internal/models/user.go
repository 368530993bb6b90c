package models

import "time"

// AuthUser represents the authenticated user record returned by the auth endpoints.
type AuthUser struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthToken is the opaque bearer credential issued on login/signup.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthResponse is the payload returned by POST /auth/login and /auth/signup.
type AuthResponse struct {
	Token AuthToken `json:"token"`
	User  AuthUser  `json:"user"`
}

// AuthCredentials is the login/signup request payload.
type AuthCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
