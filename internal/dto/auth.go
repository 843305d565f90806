package dto

// RegisterRequest represents the request payload for user registration
type RegisterRequest struct {
	FullName string `json:"fullName" example:"Ada Lovelace"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
