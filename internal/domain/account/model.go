package account

import "time"

type Account struct {
	ID           int64
	Username     string
	PasswordHash string // never the plaintext
	CreatedAt    time.Time
}
