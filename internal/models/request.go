package models

type LoginRequest struct {
	Password string `form:"password" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
