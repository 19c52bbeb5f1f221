package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxNameRunes bounds the registrant name after trimming.
const MaxNameRunes = 100

// AllowedQualifications is the closed set of qualification labels offered by the form.
var AllowedQualifications = []string{"ليسانس", "بكالريوس", "دبلوم", "معاش", "اخرى"}

type Qualification string

func NewQualification(value string) (Qualification, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrMissingFields
	}
	for _, allowed := range AllowedQualifications {
		if allowed == trimmed {
			return Qualification(trimmed), nil
		}
	}
	return "", ErrInvalidQualification
}

func (q Qualification) String() string {
	return string(q)
}

func NewPersonName(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrMissingFields
	}
	if utf8.RuneCountInString(trimmed) > MaxNameRunes {
		return "", ErrNameTooLong
	}
	return trimmed, nil
}

func requireAll(values ...string) ([]string, error) {
	result := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil, ErrMissingFields
		}
		result = append(result, trimmed)
	}
	return result, nil
}

func trimOptional(value string) string {
	return strings.TrimSpace(value)
}
