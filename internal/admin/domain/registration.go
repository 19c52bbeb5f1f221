package domain

import (
	"errors"
	"time"
)

// ErrNoRegistrations is returned by the export when there is nothing to export.
var ErrNoRegistrations = errors.New("no registrations to export")

// Registration is the admin read model of a stored teacher registration.
type Registration struct {
	ID             string
	Name           string
	PhoneNumber    string
	Place          string
	Qualification  string
	Governorate    string
	Administration string
	School         string
	IDPhotoPath    string
	Comments       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExportColumns is the fixed CSV column order of the export.
var ExportColumns = []string{
	"name",
	"phoneNumber",
	"qualification",
	"place",
	"governorate",
	"administration",
	"school",
	"idPhotoPath",
	"comments",
	"createdAt",
}

// ExportTimeLayout formats createdAt in the export (UTC, millisecond precision).
const ExportTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ExportRow returns the record's values in ExportColumns order.
func (r Registration) ExportRow() []string {
	return []string{
		r.Name,
		r.PhoneNumber,
		r.Qualification,
		r.Place,
		r.Governorate,
		r.Administration,
		r.School,
		r.IDPhotoPath,
		r.Comments,
		r.CreatedAt.UTC().Format(ExportTimeLayout),
	}
}
