package client

import "time"

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResult ответ сервера на регистрацию
type RegisterResult struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
}

// Session выданный сервером токен и срок его действия
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CredentialFields struct {
	SiteName   string `json:"site_name"`
	SiteURL    string `json:"site_url"`
	SiteSecret string `json:"site_secret"`
}

type Credential struct {
	ID int64 `json:"id"`
	CredentialFields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
