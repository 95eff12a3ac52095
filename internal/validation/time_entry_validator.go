package validation

import (
	"fmt"

	"timesheet/internal/domain"
)

// TimeEntryValidator checks the shape of time entry request bodies.
// Interval rules such as minimum duration live in EntryValidator.
type TimeEntryValidator struct {
	validator *Validator
}

func NewTimeEntryValidator() *TimeEntryValidator {
	return &TimeEntryValidator{validator: NewValidator()}
}

func (tev *TimeEntryValidator) ValidateTimeEntryInput(in *domain.TimeEntryInput) error {
	validationError := NewValidationError()
	tev.validateFields(validationError, "", in)
	return validationError.AppError()
}

// ValidateBulkInput checks the batch envelope and every item in it.
// Item fields are reported as timeEntries[i].field.
func (tev *TimeEntryValidator) ValidateBulkInput(in *domain.BulkTimeEntryInput) error {
	validationError := NewValidationError()

	if in.EntryDate.IsZero() {
		validationError.AddRequiredError("entryDate")
	}
	if len(in.TimeEntries) == 0 {
		validationError.AddError("timeEntries", ErrorTypeRequired, "At least one time entry is required", nil)
	}
	for i := range in.TimeEntries {
		item := &in.TimeEntries[i]
		// items inherit the batch date
		item.EntryDate = in.EntryDate
		tev.validateFields(validationError, fmt.Sprintf("timeEntries[%d].", i), item)
	}

	return validationError.AppError()
}

func (tev *TimeEntryValidator) ValidateTimeEntryID(id int64) error {
	if tev.validator.IsValidID(id) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError("id", id, "must be a positive integer")
	return validationError.AppError()
}

func (tev *TimeEntryValidator) validateFields(ve *ValidationError, prefix string, in *domain.TimeEntryInput) {
	if !tev.validator.IsValidID(in.TaskID) {
		ve.AddRequiredError(prefix + "taskId")
	}
	if in.EntryDate.IsZero() {
		ve.AddRequiredError(prefix + "entryDate")
	}
	in.Description = tev.validator.checkDescription(ve, prefix+"description", in.Description)
}
