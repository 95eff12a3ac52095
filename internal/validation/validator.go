package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Limits bounds the free-text request fields.
type Limits struct {
	TitleMinLength       int
	TitleMaxLength       int
	DescriptionMaxLength int
	IconMaxLength        int
}

// DefaultLimits mirrors the column sizes of the schema.
var DefaultLimits = Limits{
	TitleMinLength:       1,
	TitleMaxLength:       255,
	DescriptionMaxLength: 1000,
	IconMaxLength:        50,
}

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validator provides the field checks shared by the request validators
type Validator struct {
	limits Limits
}

// NewValidator creates a validator using DefaultLimits
func NewValidator() *Validator {
	return &Validator{limits: DefaultLimits}
}

// NewValidatorWithLimits creates a validator with custom limits
func NewValidatorWithLimits(limits Limits) *Validator {
	return &Validator{limits: limits}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength counts characters, not bytes
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func (v *Validator) IsValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// checkTitle trims title and records required/length errors under field
func (v *Validator) checkTitle(ve *ValidationError, field, title string) string {
	trimmed := v.TrimAndValidateString(title)
	if !v.IsNonEmptyString(trimmed) {
		ve.AddRequiredError(field)
		return trimmed
	}
	if !v.IsValidStringLength(trimmed, v.limits.TitleMinLength, v.limits.TitleMaxLength) {
		ve.AddInvalidLengthError(field, trimmed, v.limits.TitleMinLength, v.limits.TitleMaxLength)
	}
	return trimmed
}

func (v *Validator) checkDescription(ve *ValidationError, field, description string) string {
	trimmed := v.TrimAndValidateString(description)
	if !v.IsValidStringLength(trimmed, 0, v.limits.DescriptionMaxLength) {
		ve.AddInvalidLengthError(field, trimmed, 0, v.limits.DescriptionMaxLength)
	}
	return trimmed
}
