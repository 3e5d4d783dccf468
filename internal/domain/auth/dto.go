package auth

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	User        *AdminUser `json:"user"`
}
