package validation

import (
	"timesheet/internal/domain"
)

// CategoryValidator checks category request bodies
type CategoryValidator struct {
	validator *Validator
}

func NewCategoryValidator() *CategoryValidator {
	return &CategoryValidator{validator: NewValidator()}
}

// ValidateCategoryInput trims the text fields of in and checks their bounds.
// The same rules apply to create and update.
func (cv *CategoryValidator) ValidateCategoryInput(in *domain.CategoryInput) error {
	validationError := NewValidationError()

	in.Title = cv.validator.checkTitle(validationError, "title", in.Title)
	in.Description = cv.validator.checkDescription(validationError, "description", in.Description)

	if in.SortOrder != nil && *in.SortOrder < 0 {
		validationError.AddInvalidValueError("sortOrder", *in.SortOrder, "must not be negative")
	}

	return validationError.AppError()
}

// ValidateReorder checks a reorder request before any lookup happens
func (cv *CategoryValidator) ValidateReorder(ids []int64) error {
	validationError := NewValidationError()

	if len(ids) == 0 {
		validationError.AddRequiredError("categoryIds")
		return validationError.AppError()
	}
	validateIDList(cv.validator, validationError, "categoryIds", ids)

	return validationError.AppError()
}

// validateIDList rejects non-positive and repeated ids
func validateIDList(v *Validator, ve *ValidationError, field string, ids []int64) {
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !v.IsValidID(id) {
			ve.AddInvalidValueError(field, id, "must be a positive integer")
			continue
		}
		if seen[id] {
			ve.AddInvalidValueError(field, id, "must not contain duplicates")
		}
		seen[id] = true
	}
}
