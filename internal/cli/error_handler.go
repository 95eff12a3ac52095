package cli

import (
	"fmt"
	"strings"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/validation"
)

// ErrorHandler turns service errors into messages fit for a terminal
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	if !errors.IsAppError(err) {
		return fmt.Errorf("failed to %s: %w", operation, err)
	}
	return &handledError{
		msg: fmt.Sprintf("failed to %s: %s", operation, eh.describe(err)),
		err: err,
	}
}

// handledError carries the rendered message while keeping the AppError reachable
type handledError struct {
	msg string
	err error
}

func (e *handledError) Error() string { return e.msg }

func (e *handledError) Unwrap() error { return e.err }

// describe renders the user message plus the details a CLI user needs to fix the input
func (eh *ErrorHandler) describe(err error) string {
	appErr, _ := errors.AsAppError(err)
	var b strings.Builder
	b.WriteString(errors.GetUserMessage(err))

	if v, ok := appErr.GetContext(errors.ContextKeyValidation); ok {
		if result, ok := v.(*domain.ValidationResult); ok {
			for _, c := range result.Conflicts {
				fmt.Fprintf(&b, "\n  conflicts with #%d %s %s-%s", c.TimeEntryID, c.TaskTitle, c.StartTime, c.EndTime)
			}
		}
	}
	if maxHours, ok := appErr.GetContext("maxHours"); ok {
		actual, _ := appErr.GetContext("actualHours")
		fmt.Fprintf(&b, "\n  daily total %vh exceeds %vh", actual, maxHours)
	}
	return b.String()
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// ExitCode maps an error to the process exit status: 2 for rejected input,
// 3 for missing records and 1 for everything else.
func (eh *ErrorHandler) ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case eh.IsValidationError(err), errors.IsErrorType(err, errors.ErrorTypeInvalidInput),
		errors.IsErrorType(err, errors.ErrorTypeConflict), errors.IsErrorType(err, errors.ErrorTypeArchived):
		return 2
	case eh.IsNotFoundError(err):
		return 3
	default:
		return 1
	}
}
