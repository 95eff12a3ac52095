package validation

import (
	"timesheet/internal/domain"
)

// TaskValidator checks task request bodies
type TaskValidator struct {
	validator *Validator
}

func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// ValidateTaskForCreation requires a category in addition to the shared field rules
func (tv *TaskValidator) ValidateTaskForCreation(in *domain.TaskInput) error {
	validationError := NewValidationError()

	if !tv.validator.IsValidID(in.CategoryID) {
		validationError.AddRequiredError("categoryId")
	}
	tv.validateFields(validationError, in)

	return validationError.AppError()
}

// ValidateTaskForUpdate ignores CategoryID; moving a task is a separate operation
func (tv *TaskValidator) ValidateTaskForUpdate(id int64, in *domain.TaskInput) error {
	validationError := NewValidationError()

	if !tv.validator.IsValidID(id) {
		validationError.AddInvalidValueError("id", id, "must be a positive integer")
	}
	tv.validateFields(validationError, in)

	return validationError.AppError()
}

func (tv *TaskValidator) ValidateReorder(categoryID int64, ids []int64) error {
	validationError := NewValidationError()

	if !tv.validator.IsValidID(categoryID) {
		validationError.AddInvalidValueError("categoryId", categoryID, "must be a positive integer")
	}
	if len(ids) == 0 {
		validationError.AddRequiredError("taskIds")
	} else {
		validateIDList(tv.validator, validationError, "taskIds", ids)
	}

	return validationError.AppError()
}

func (tv *TaskValidator) validateFields(ve *ValidationError, in *domain.TaskInput) {
	in.Title = tv.validator.checkTitle(ve, "title", in.Title)
	in.Description = tv.validator.checkDescription(ve, "description", in.Description)

	in.Color = tv.validator.TrimAndValidateString(in.Color)
	switch {
	case in.Color == "":
		ve.AddRequiredError("color")
	case !tv.validator.IsValidHexColor(in.Color):
		ve.AddInvalidFormatError("color", in.Color, "hex color code (e.g., #FF5733)")
	}

	in.Icon = tv.validator.TrimAndValidateString(in.Icon)
	if !tv.validator.IsValidStringLength(in.Icon, 0, tv.validator.limits.IconMaxLength) {
		ve.AddInvalidLengthError("icon", in.Icon, 0, tv.validator.limits.IconMaxLength)
	}

	if in.SortOrder != nil && *in.SortOrder < 0 {
		ve.AddInvalidValueError("sortOrder", *in.SortOrder, "must not be negative")
	}
}
