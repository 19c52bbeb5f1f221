package application

import (
	"context"

	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
)

// referenceQueryService implements ReferenceQueryService.
type referenceQueryService struct {
	repo ReferenceRepository
}

// NewReferenceQueryService creates a new ReferenceQueryService.
func NewReferenceQueryService(repo ReferenceRepository) ReferenceQueryService {
	return &referenceQueryService{repo: repo}
}

func (s *referenceQueryService) Places() []string {
	return domain.Places()
}

func (s *referenceQueryService) Governorates(ctx context.Context) ([]string, error) {
	return s.repo.Governorates(ctx)
}

func (s *referenceQueryService) Administrations(ctx context.Context, governorate string) ([]string, error) {
	return s.repo.Administrations(ctx, governorate)
}

func (s *referenceQueryService) Schools(ctx context.Context, governorate, administration string) ([]string, error) {
	return s.repo.Schools(ctx, governorate, administration)
}
