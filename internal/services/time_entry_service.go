package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlstore"
	"timesheet/internal/validation"
)

// bulkItemFailurePrefix starts every per-item message of a bulk create
const bulkItemFailurePrefix = "Failed to create time entry: "

// timeEntryServiceImpl implements the TimeEntryService interface
type timeEntryServiceImpl struct {
	repo           sqlstore.Repository
	mapper         *domain.Mapper
	inputValidator *validation.TimeEntryValidator
	locks          *dayLocks
	logger         *log.Logger
}

// NewTimeEntryService creates a new TimeEntryService instance
func NewTimeEntryService(repo sqlstore.Repository, logger *log.Logger) TimeEntryService {
	return &timeEntryServiceImpl{
		repo:           repo,
		mapper:         domain.NewMapper(),
		inputValidator: validation.NewTimeEntryValidator(),
		locks:          newDayLocks(),
		logger:         logger,
	}
}

func (s *timeEntryServiceImpl) GetTimeEntry(ctx context.Context, userID, id int64) (*domain.TimeEntry, error) {
	if err := s.inputValidator.ValidateTimeEntryID(id); err != nil {
		return nil, err
	}
	return s.load(ctx, s.repo, userID, id)
}

func (s *timeEntryServiceImpl) ListTimeEntriesByDate(ctx context.Context, userID int64, date domain.Date) ([]domain.TimeEntry, error) {
	rows, err := s.repo.ListTimeEntriesByDate(ctx, userID, date.String())
	if err != nil {
		return nil, err
	}
	return s.toEntries(rows)
}

func (s *timeEntryServiceImpl) ListTimeEntriesByRange(ctx context.Context, userID int64, r domain.DateRange) ([]domain.TimeEntry, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListTimeEntriesByRange(ctx, userID, r.Start.String(), r.End.String())
	if err != nil {
		return nil, err
	}
	return s.toEntries(rows)
}

// CreateTimeEntry validates the entry against the user's day and stores it.
// Validation and insert share a transaction and hold the day's lock.
func (s *timeEntryServiceImpl) CreateTimeEntry(ctx context.Context, userID int64, in domain.TimeEntryInput) (*domain.TimeEntry, error) {
	if err := s.inputValidator.ValidateTimeEntryInput(&in); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID, in.EntryDate)
	defer unlock()

	var created *domain.TimeEntry
	err := s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		created, _, err = s.createInTx(ctx, tx, userID, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created time entry",
		"id", created.ID, "task", created.TaskTitle, "date", created.EntryDate,
		"start", created.StartTime, "end", created.EndTime, "user", userID)
	return created, nil
}

// UpdateTimeEntry replaces every field of an entry and re-validates it.
// When the entry moves to another day both days are locked.
func (s *timeEntryServiceImpl) UpdateTimeEntry(ctx context.Context, userID, id int64, in domain.TimeEntryInput) (*domain.TimeEntry, error) {
	if err := s.inputValidator.ValidateTimeEntryID(id); err != nil {
		return nil, err
	}
	if err := s.inputValidator.ValidateTimeEntryInput(&in); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetTimeEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	oldDate, err := domain.ParseDate(existing.EntryDate)
	if err != nil {
		return nil, errors.NewDatabaseError("decode time entry", err)
	}

	unlock := s.locks.Lock(userID, oldDate, in.EntryDate)
	defer unlock()

	var updated *domain.TimeEntry
	err = s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		if _, err := tx.GetTask(ctx, userID, in.TaskID); err != nil {
			return err
		}

		candidate := validation.CandidateFromInput(in)
		if _, err := s.checkCandidate(ctx, tx, userID, candidate, id); err != nil {
			return err
		}

		row := s.mapper.TimeEntry.ToDatabase(domain.TimeEntry{
			ID:              id,
			UserID:          userID,
			TaskID:          in.TaskID,
			EntryDate:       in.EntryDate,
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			DurationMinutes: in.Duration(),
			Description:     in.Description,
			IsBillable:      in.IsBillable,
		})
		if err := tx.UpdateTimeEntry(ctx, &row); err != nil {
			return err
		}

		var err error
		updated, err = s.load(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated time entry", "id", id, "date", updated.EntryDate, "user", userID)
	return updated, nil
}

func (s *timeEntryServiceImpl) DeleteTimeEntry(ctx context.Context, userID, id int64) error {
	if err := s.inputValidator.ValidateTimeEntryID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteTimeEntry(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("Deleted time entry", "id", id, "user", userID)
	return nil
}

// BulkCreateTimeEntries creates several entries on one day. Items are
// processed in order, each in its own transaction; a failed item is
// reported and the batch moves on.
func (s *timeEntryServiceImpl) BulkCreateTimeEntries(ctx context.Context, userID int64, in domain.BulkTimeEntryInput) (*domain.BulkOperationResult, error) {
	if err := s.inputValidator.ValidateBulkInput(&in); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID, in.EntryDate)
	defer unlock()

	if in.ReplaceExisting {
		var deleted int64
		err := s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
			var err error
			deleted, err = tx.DeleteTimeEntriesByDate(ctx, userID, in.EntryDate.String())
			return err
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("Deleted existing time entries before bulk create", "count", deleted, "date", in.EntryDate, "user", userID)
	}

	result := domain.NewBulkOperationResult()
	for _, item := range in.TimeEntries {
		var created *domain.TimeEntry
		var warnings []string
		err := s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
			var err error
			created, warnings, err = s.createInTx(ctx, tx, userID, item)
			return err
		})
		if err != nil {
			result.Errors = append(result.Errors, bulkItemFailurePrefix+errors.GetUserMessage(err))
			result.FailureCount++
			continue
		}

		result.CreatedIDs = append(result.CreatedIDs, created.ID)
		result.Warnings = append(result.Warnings, warnings...)
		result.SuccessCount++
	}
	result.TotalProcessed = len(in.TimeEntries)

	s.logger.Info("Bulk created time entries",
		"total", result.TotalProcessed, "success", result.SuccessCount, "failure", result.FailureCount,
		"date", in.EntryDate, "user", userID)
	return result, nil
}

// ValidateTimeEntry runs the write rules without persisting anything
func (s *timeEntryServiceImpl) ValidateTimeEntry(ctx context.Context, userID int64, in domain.TimeEntryInput) (*domain.ValidationResult, error) {
	if err := s.inputValidator.ValidateTimeEntryInput(&in); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetTask(ctx, userID, in.TaskID); err != nil {
		return nil, err
	}

	validator := validation.NewEntryValidator(newEntryLookup(s.repo, s.mapper))
	return validator.Validate(ctx, userID, validation.CandidateFromInput(in), 0)
}

func (s *timeEntryServiceImpl) DailyTotalMinutes(ctx context.Context, userID int64, date domain.Date) (int, error) {
	return s.repo.SumDurationForDate(ctx, userID, date.String(), 0)
}

func (s *timeEntryServiceImpl) FindOverlappingEntries(ctx context.Context, userID int64, date domain.Date, start, end domain.Clock, excludeID int64) ([]domain.TimeEntry, error) {
	checker := validation.NewOverlapChecker(newEntryLookup(s.repo, s.mapper))
	return checker.Conflicts(ctx, userID, date, start, end, excludeID)
}

// createInTx checks ownership and the write rules, then inserts the entry.
// It returns the stored entry and the advisory warnings.
func (s *timeEntryServiceImpl) createInTx(ctx context.Context, tx sqlstore.Repository, userID int64, in domain.TimeEntryInput) (*domain.TimeEntry, []string, error) {
	if _, err := tx.GetTask(ctx, userID, in.TaskID); err != nil {
		return nil, nil, err
	}

	result, err := s.checkCandidate(ctx, tx, userID, validation.CandidateFromInput(in), 0)
	if err != nil {
		return nil, nil, err
	}

	row := s.mapper.TimeEntry.ToDatabase(domain.TimeEntry{
		UserID:          userID,
		TaskID:          in.TaskID,
		EntryDate:       in.EntryDate,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		DurationMinutes: in.Duration(),
		Description:     in.Description,
		IsBillable:      in.IsBillable,
	})
	if err := tx.CreateTimeEntry(ctx, &row); err != nil {
		return nil, nil, err
	}

	created, err := s.load(ctx, tx, userID, row.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, result.Warnings, nil
}

// checkCandidate validates against tx and turns an invalid result into the
// matching structured error.
func (s *timeEntryServiceImpl) checkCandidate(ctx context.Context, tx sqlstore.Repository, userID int64, c validation.Candidate, excludeID int64) (*domain.ValidationResult, error) {
	validator := validation.NewEntryValidator(newEntryLookup(tx, s.mapper))

	result, err := validator.Validate(ctx, userID, c, excludeID)
	if err != nil {
		return nil, err
	}
	if result.Valid {
		return result, nil
	}

	message := "Time entry validation failed: " + strings.Join(result.Errors, ", ")
	switch {
	case result.HasConflicts():
		return nil, errors.NewConflictError(message).
			WithContext(errors.ContextKeyValidation, result)
	case validation.OnlyDailyLimitFailed(result):
		total, err := validator.NewDailyTotal(ctx, userID, c, excludeID)
		if err != nil {
			return nil, err
		}
		return nil, errors.NewDailyLimitError(message,
			float64(validation.MaxDailyMinutes/60), domain.Round2(float64(total)/60)).
			WithContext(errors.ContextKeyValidation, result)
	default:
		return nil, errors.NewValidationError(message, nil).
			WithContext(errors.ContextKeyValidation, result)
	}
}

func (s *timeEntryServiceImpl) load(ctx context.Context, repo sqlstore.Repository, userID, id int64) (*domain.TimeEntry, error) {
	row, err := repo.GetTimeEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	entry, err := s.mapper.TimeEntry.FromDatabase(*row)
	if err != nil {
		return nil, errors.NewDatabaseError("decode time entry", err)
	}
	return &entry, nil
}

func (s *timeEntryServiceImpl) toEntries(rows []*sqlstore.TimeEntry) ([]domain.TimeEntry, error) {
	entries, err := s.mapper.TimeEntry.FromDatabaseSlice(rows)
	if err != nil {
		return nil, errors.NewDatabaseError("decode time entries", err)
	}
	return entries, nil
}

// checkRange rejects ranges whose end precedes their start
func checkRange(r domain.DateRange) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return errors.NewInvalidInputError("dateRange", fmt.Sprintf("%s..%s", r.Start, r.End), "start and end dates are required")
	}
	if r.End.Before(r.Start) {
		return errors.NewInvalidInputError("dateRange", fmt.Sprintf("%s..%s", r.Start, r.End), "end date must not be before start date")
	}
	return nil
}
