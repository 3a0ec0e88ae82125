package models

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the opaque token issued by the remote service.
type LoginResponse struct {
	Token string `json:"token"`
}
