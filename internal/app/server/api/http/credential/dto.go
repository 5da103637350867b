package credential

import (
	"time"

	"passvault/internal/domain/credential"
)

type fieldsRequest struct {
	SiteName   string `json:"site_name" doc:"Название сайта" example:"bank"`
	SiteURL    string `json:"site_url" doc:"Адрес сайта" example:"https://bank.example"`
	SiteSecret string `json:"site_secret" doc:"Секрет для сайта, хранится зашифрованным"`
}

func (r fieldsRequest) toFields() credential.Fields {
	return credential.Fields{
		SiteName:   r.SiteName,
		SiteURL:    r.SiteURL,
		SiteSecret: r.SiteSecret,
	}
}

type Record struct {
	ID         int64     `json:"id"`
	SiteName   string    `json:"site_name"`
	SiteURL    string    `json:"site_url"`
	SiteSecret string    `json:"site_secret"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func fromRecord(r credential.Record) Record {
	return Record{
		ID:         r.ID,
		SiteName:   r.SiteName,
		SiteURL:    r.SiteURL,
		SiteSecret: r.SiteSecret,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type ListResponse struct {
	Credentials []Record `json:"credentials"`
	Total       int      `json:"total"`
}

type listOutput struct {
	Body ListResponse
}

type createInput struct {
	Body fieldsRequest
}

type createOutput struct {
	Body Record
}

type updateInput struct {
	ID   int64 `path:"id" example:"1" doc:"ID записи"`
	Body fieldsRequest
}

type updateOutput struct {
	Body UpdateResponse
}

type UpdateResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
