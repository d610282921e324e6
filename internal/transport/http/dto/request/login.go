package request

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest: refresh-токен необязателен, сессия сбрасывается в любом случае.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
