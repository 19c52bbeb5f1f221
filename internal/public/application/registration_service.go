package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
)

type registrationCommandService struct {
	repo   RegistrationRepository
	photos PhotoStore
	now    func() time.Time
}

// NewRegistrationCommandService creates the submission service.
func NewRegistrationCommandService(repo RegistrationRepository, photos PhotoStore) RegistrationCommandService {
	return &registrationCommandService{
		repo:   repo,
		photos: photos,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates the form, stores the photo and writes exactly one registration.
// A photo stored before a failed write is left in place.
func (s *registrationCommandService) Submit(ctx context.Context, cmd SubmitRegistrationCommand) (*domain.Registration, error) {
	registration, err := domain.NewRegistration(domain.RegistrationInput{
		Name:           cmd.Name,
		PhoneNumber:    cmd.PhoneNumber,
		Place:          cmd.Place,
		Qualification:  cmd.Qualification,
		Governorate:    cmd.Governorate,
		Administration: cmd.Administration,
		School:         cmd.School,
		Comments:       cmd.Comments,
	})
	if err != nil {
		return nil, err
	}
	if cmd.Photo == nil || cmd.Photo.Content == nil {
		return nil, domain.ErrPhotoRequired
	}

	path, err := s.photos.Save(ctx, *cmd.Photo)
	if err != nil {
		return nil, err
	}
	if err := registration.AttachPhoto(path); err != nil {
		return nil, err
	}
	registration.Stamp(s.now())

	if err := s.repo.Create(ctx, registration); err != nil {
		return nil, fmt.Errorf("save registration (photo %s kept): %w", path, err)
	}
	return registration, nil
}
