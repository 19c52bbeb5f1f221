package application

import (
	"context"

	admindomain "github.com/sngm3741/teacher-registration/api/internal/admin/domain"
)

// RegistrationRepository exposes admin reads on registrations.
type RegistrationRepository interface {
	FindAll(ctx context.Context) ([]admindomain.Registration, error)
}

// RegistrationService describes admin registration use-cases.
type RegistrationService interface {
	List(ctx context.Context) ([]admindomain.Registration, error)
	Export(ctx context.Context) ([]byte, error)
}
