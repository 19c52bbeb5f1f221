package domain

import "time"

// Registration represents one teacher registration as submitted through the public form.
type Registration struct {
	ID             string
	Name           string
	PhoneNumber    string
	Place          string
	Qualification  Qualification
	Governorate    string
	Administration string
	School         string
	IDPhotoPath    string
	Comments       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RegistrationInput carries raw form values before validation.
type RegistrationInput struct {
	Name           string
	PhoneNumber    string
	Place          string
	Qualification  string
	Governorate    string
	Administration string
	School         string
	Comments       string
}

// NewRegistration trims and validates the input. The photo path and timestamps are assigned later.
func NewRegistration(input RegistrationInput) (*Registration, error) {
	required, err := requireAll(input.Name, input.PhoneNumber, input.Place, input.Qualification, input.Governorate, input.Administration)
	if err != nil {
		return nil, err
	}
	name, err := NewPersonName(required[0])
	if err != nil {
		return nil, err
	}
	qualification, err := NewQualification(required[3])
	if err != nil {
		return nil, err
	}

	return &Registration{
		Name:           name,
		PhoneNumber:    required[1],
		Place:          required[2],
		Qualification:  qualification,
		Governorate:    required[4],
		Administration: required[5],
		School:         trimOptional(input.School),
		Comments:       trimOptional(input.Comments),
	}, nil
}

// AttachPhoto records where the ID photo was stored.
func (r *Registration) AttachPhoto(path string) error {
	path = trimOptional(path)
	if path == "" {
		return ErrPhotoRequired
	}
	r.IDPhotoPath = path
	return nil
}

// Stamp assigns the persistence timestamps.
func (r *Registration) Stamp(now time.Time) {
	r.CreatedAt = now
	r.UpdatedAt = now
}

// Validate re-checks the persisted-record invariants before a write.
func (r *Registration) Validate() error {
	if _, err := NewPersonName(r.Name); err != nil {
		return err
	}
	if _, err := requireAll(r.PhoneNumber, r.Place, r.Governorate, r.Administration); err != nil {
		return err
	}
	if _, err := NewQualification(r.Qualification.String()); err != nil {
		return err
	}
	if trimOptional(r.IDPhotoPath) == "" {
		return ErrPhotoRequired
	}
	return nil
}
