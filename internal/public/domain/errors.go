package domain

import "errors"

// ValidationError is returned when a submission is rejected because of its content.
// Message is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a client-facing validation failure.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

var (
	ErrMissingFields        = NewValidationError("All fields are required except School and Comments.")
	ErrNameTooLong          = NewValidationError("Name must be at most 100 characters.")
	ErrInvalidQualification = NewValidationError("Invalid qualification.")
	ErrPhotoRequired        = NewValidationError("ID Photo is required.")

	// ErrUnsupportedPhotoType is returned for uploads that are not images.
	ErrUnsupportedPhotoType = errors.New("only image files are allowed")
	// ErrPhotoTooLarge is returned when an upload exceeds the configured size.
	ErrPhotoTooLarge = errors.New("photo exceeds the maximum upload size")

	// ErrReferenceNotFound means the requested lookup list does not exist.
	ErrReferenceNotFound = errors.New("reference data not found")
	// ErrInvalidReferenceKey means a lookup key could not be used as a storage key.
	ErrInvalidReferenceKey = errors.New("invalid reference data key")
)

// IsValidationError reports whether err carries a client-facing validation message.
func IsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
