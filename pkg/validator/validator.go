package validator

import (
	"regexp"
	"strings"

	"github.com/sharmalakshay/listky/pkg/errors"
)

var (
	// Username: 3-20 alphanumeric characters
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9]{3,20}$`)

	// PIN: exactly 6 digits
	pinRegex = regexp.MustCompile(`^[0-9]{6}$`)

	// Slug: 1-50 alphanumeric characters and hyphens
	slugRegex = regexp.MustCompile(`^[a-zA-Z0-9-]{1,50}$`)
)

const (
	maxTitleLength   = 200
	maxContentLength = 10000
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateUsername checks if username is valid
func (v *Validator) ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return errors.ErrInvalidUsername
	}
	return nil
}

// ValidatePIN checks if PIN is exactly 6 digits
func (v *Validator) ValidatePIN(pin string) error {
	if !pinRegex.MatchString(pin) {
		return errors.ErrInvalidPIN
	}
	return nil
}

// ValidateSlug checks if list slug is valid
func (v *Validator) ValidateSlug(slug string) error {
	if !slugRegex.MatchString(slug) {
		return errors.ErrInvalidSlug
	}
	return nil
}

// ValidateTitle validates list title
func (v *Validator) ValidateTitle(title string) error {
	title = strings.TrimSpace(title)

	if len(title) == 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "title cannot be empty", 400)
	}

	if len(title) > maxTitleLength {
		return errors.NewAppError(errors.ErrInvalidInput, "title too long (max 200 characters)", 400)
	}

	return nil
}

// ValidateContent validates list content
func (v *Validator) ValidateContent(content string) error {
	if len(content) == 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "content cannot be empty", 400)
	}

	if len(content) > maxContentLength {
		return errors.NewAppError(errors.ErrInvalidInput, "content too long (max 10000 characters)", 400)
	}

	return nil
}

// SanitizeString removes dangerous characters and null bytes
func (v *Validator) SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	return input
}

// NormalizeUsername lowercases a username for case-insensitive uniqueness
func (v *Validator) NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
