package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"

	admindomain "github.com/sngm3741/teacher-registration/api/internal/admin/domain"
)

type registrationService struct {
	repo RegistrationRepository
}

func NewRegistrationService(repo RegistrationRepository) RegistrationService {
	return &registrationService{repo: repo}
}

func (s *registrationService) List(ctx context.Context) ([]admindomain.Registration, error) {
	registrations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(registrations)
	return registrations, nil
}

func (s *registrationService) Export(ctx context.Context) ([]byte, error) {
	registrations, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(registrations) == 0 {
		return nil, admindomain.ErrNoRegistrations
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(admindomain.ExportColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, registration := range registrations {
		if err := writer.Write(registration.ExportRow()); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", registration.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func sortNewestFirst(registrations []admindomain.Registration) {
	sort.SliceStable(registrations, func(i, j int) bool {
		return registrations[i].CreatedAt.After(registrations[j].CreatedAt)
	})
}
