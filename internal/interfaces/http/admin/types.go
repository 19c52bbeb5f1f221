package admin

import (
	"time"

	admindomain "github.com/sngm3741/teacher-registration/api/internal/admin/domain"
)

type registrationResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PhoneNumber    string    `json:"phoneNumber"`
	Qualification  string    `json:"qualification"`
	Place          string    `json:"place"`
	Governorate    string    `json:"governorate"`
	Administration string    `json:"administration"`
	School         string    `json:"school,omitempty"`
	IDPhotoPath    string    `json:"idPhotoPath"`
	Comments       string    `json:"comments,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// registrationDomainToResponse はドメインの Registration を管理画面向けレスポンスへ変換する。
func registrationDomainToResponse(reg admindomain.Registration) registrationResponse {
	return registrationResponse{
		ID:             reg.ID,
		Name:           reg.Name,
		PhoneNumber:    reg.PhoneNumber,
		Qualification:  reg.Qualification,
		Place:          reg.Place,
		Governorate:    reg.Governorate,
		Administration: reg.Administration,
		School:         reg.School,
		IDPhotoPath:    reg.IDPhotoPath,
		Comments:       reg.Comments,
		CreatedAt:      reg.CreatedAt.UTC(),
		UpdatedAt:      reg.UpdatedAt.UTC(),
	}
}
