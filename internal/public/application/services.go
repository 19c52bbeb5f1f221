package application

import (
	"context"
	"io"

	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
)

// RegistrationRepository persists new registrations.
// RegistrationRepository は Public コンテキストで登録を書き込むためのポート。
type RegistrationRepository interface {
	Create(ctx context.Context, registration *domain.Registration) error
}

// PhotoStore stores the uploaded ID photo and returns its stored path.
type PhotoStore interface {
	Save(ctx context.Context, photo PhotoUpload) (string, error)
}

// ReferenceRepository reads the static lookup lists.
// ReferenceRepository は参照データ (県・教育管理局・学校) の読み取りポート。
type ReferenceRepository interface {
	Governorates(ctx context.Context) ([]string, error)
	Administrations(ctx context.Context, governorate string) ([]string, error)
	Schools(ctx context.Context, governorate, administration string) ([]string, error)
}

// PhotoUpload describes one uploaded file as received from the client.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// SubmitRegistrationCommand captures the raw form input.
type SubmitRegistrationCommand struct {
	Name           string
	PhoneNumber    string
	Qualification  string
	Place          string
	Governorate    string
	Administration string
	School         string
	Comments       string
	Photo          *PhotoUpload
}

// RegistrationCommandService handles the submission use-case.
type RegistrationCommandService interface {
	Submit(ctx context.Context, cmd SubmitRegistrationCommand) (*domain.Registration, error)
}

// ReferenceQueryService describes the lookup use-cases behind the cascading selectors.
// ReferenceQueryService は選択肢 (場所・県・管理局・学校) の参照ユースケース。
type ReferenceQueryService interface {
	Places() []string
	Governorates(ctx context.Context) ([]string, error)
	Administrations(ctx context.Context, governorate string) ([]string, error)
	Schools(ctx context.Context, governorate, administration string) ([]string, error)
}
