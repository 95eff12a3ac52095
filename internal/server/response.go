package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/validation"
)

// envelope wraps every successful response
type envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// errorBody is the payload of every failed request
type errorBody struct {
	Error       string                 `json:"error"`
	Message     string                 `json:"message"`
	Details     map[string]interface{} `json:"details,omitempty"`
	FieldErrors map[string][]string    `json:"fieldErrors,omitempty"`
	Validation  interface{}            `json:"validation,omitempty"`
	ErrorID     string                 `json:"errorId,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Path        string                 `json:"path"`
}

// Error codes of the HTTP error body
const (
	errorNotFound         = "RESOURCE_NOT_FOUND"
	errorValidation       = "VALIDATION"
	errorTimeOverlap      = "TIME_OVERLAP"
	errorDailyLimit       = "DAILY_LIMIT_EXCEEDED"
	errorCategoryArchived = "CATEGORY_ARCHIVED"
	errorInvalidArgument  = "INVALID_ARGUMENT"
	errorAccessDenied     = "ACCESS_DENIED"
	errorInternal         = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) ok(w http.ResponseWriter, data interface{}) {
	s.respond(w, http.StatusOK, "", data)
}

func (s *Server) respond(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: s.now(),
	})
}

// writeError renders err with the status its type maps to
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := s.errorResponse(r, err)

	logger := requestLogger(r, s.logger)
	if apperrors.ShouldLogError(err) {
		logger.Error("Request failed", "status", status, "code", apperrors.GetErrorCode(err), "errorId", body.ErrorID, "err", err)
	} else {
		logger.Warn("Request rejected", "error", body.Error, "message", body.Message)
	}

	writeJSON(w, status, body)
}

func (s *Server) errorResponse(r *http.Request, err error) (int, errorBody) {
	body := errorBody{Timestamp: s.now(), Path: r.URL.Path}

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		body.Error = errorInternal
		body.Message = "Something went wrong. Please try again."
		body.ErrorID = uuid.NewString()
		return http.StatusInternalServerError, body
	}
	body.Message = appErr.Message

	switch {
	case apperrors.HasCode(err, apperrors.CodeDailyLimitExceeded):
		body.Error = errorDailyLimit
		body.Details = map[string]interface{}{}
		for _, key := range []string{"maxHours", "actualHours"} {
			if v, ok := appErr.GetContext(key); ok {
				body.Details[key] = v
			}
		}
		return http.StatusBadRequest, body

	case appErr.IsType(apperrors.ErrorTypeConflict):
		body.Error = errorTimeOverlap
		conflicts := []map[string]interface{}{}
		if result := validationResult(appErr); result != nil {
			for _, c := range result.Conflicts {
				conflicts = append(conflicts, map[string]interface{}{
					"id":        c.TimeEntryID,
					"taskTitle": c.TaskTitle,
					"startTime": c.StartTime,
					"endTime":   c.EndTime,
				})
			}
		}
		body.Details = map[string]interface{}{"conflictingEntries": conflicts}
		return http.StatusConflict, body

	case appErr.IsType(apperrors.ErrorTypeValidation):
		body.Error = errorValidation
		if v, ok := appErr.GetContext(apperrors.ContextKeyFieldErrors); ok {
			if fieldErrors, ok := v.([]validation.FieldError); ok {
				body.FieldErrors = groupFieldErrors(fieldErrors)
			}
		}
		if result := validationResult(appErr); result != nil {
			body.Validation = result
		}
		return http.StatusBadRequest, body

	case appErr.IsType(apperrors.ErrorTypeNotFound):
		body.Error = errorNotFound
		return http.StatusNotFound, body

	case appErr.IsType(apperrors.ErrorTypeArchived):
		body.Error = errorCategoryArchived
		return http.StatusBadRequest, body

	case appErr.IsType(apperrors.ErrorTypeInvalidInput):
		body.Error = errorInvalidArgument
		body.Message = "Invalid request parameters: " + appErr.Message
		return http.StatusBadRequest, body

	case appErr.IsType(apperrors.ErrorTypePermission):
		body.Error = errorAccessDenied
		return http.StatusForbidden, body
	}

	body.Error = errorInternal
	body.Message = "Something went wrong. Please try again."
	body.ErrorID = uuid.NewString()
	return http.StatusInternalServerError, body
}

func validationResult(appErr *apperrors.AppError) *domain.ValidationResult {
	v, ok := appErr.GetContext(apperrors.ContextKeyValidation)
	if !ok {
		return nil
	}
	result, _ := v.(*domain.ValidationResult)
	return result
}

func groupFieldErrors(errs []validation.FieldError) map[string][]string {
	grouped := make(map[string][]string, len(errs))
	for _, fe := range errs {
		grouped[fe.Field] = append(grouped[fe.Field], fe.Message)
	}
	return grouped
}

// decodeJSON reads a single JSON document into dest
func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return apperrors.NewInvalidInputError("body", nil, err.Error())
	}
	if decoder.More() {
		return apperrors.NewInvalidInputError("body", nil, "unexpected extra JSON data")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidInputError(name, raw, "must be a positive integer")
	}
	return id, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewInvalidInputError(name, raw, "must be an integer")
	}
	return n, nil
}

func pathDate(r *http.Request, name string) (domain.Date, error) {
	return parseDate(name, r.PathValue(name))
}

func queryDate(r *http.Request, name string) (domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.Date{}, apperrors.NewInvalidInputError(name, raw, "is required")
	}
	return parseDate(name, raw)
}

func parseDate(name, raw string) (domain.Date, error) {
	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, apperrors.NewInvalidInputError(name, raw, err.Error())
	}
	return d, nil
}

func queryClock(r *http.Request, name string) (domain.Clock, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, apperrors.NewInvalidInputError(name, raw, "is required")
	}
	c, err := domain.ParseClock(raw)
	if err != nil {
		return 0, apperrors.NewInvalidInputError(name, raw, err.Error())
	}
	return c, nil
}

// queryRange reads the startDate/endDate pair
func queryRange(r *http.Request) (domain.DateRange, error) {
	start, err := queryDate(r, "startDate")
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{Start: start, End: end}, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewInvalidInputError(name, raw, "must be true or false")
	}
	return b, nil
}
