package user

import "time"

type credentialsRequest struct {
	Username string `json:"username" doc:"Имя пользователя, чувствительно к регистру"`
	Password string `json:"password" doc:"Пароль"`
}

type registerInput struct {
	Body credentialsRequest
}

type registerOutput struct {
	Body RegisterResponse
}

type RegisterResponse struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
}

type loginInput struct {
	Body credentialsRequest
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
