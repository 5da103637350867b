package credential

import "time"

// Record is a stored site login owned by exactly one account.
type Record struct {
	ID         int64
	OwnerID    int64
	SiteName   string
	SiteURL    string
	SiteSecret string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Fields are the user-supplied parts of a record.
type Fields struct {
	SiteName   string `json:"site_name" validate:"required,max=255"`
	SiteURL    string `json:"site_url" validate:"required,max=2048"`
	SiteSecret string `json:"site_secret" validate:"required,max=4096"`
}
