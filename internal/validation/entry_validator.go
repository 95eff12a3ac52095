package validation

import (
	"context"

	"timesheet/internal/domain"
)

// Thresholds applied to a single candidate entry, in minutes.
const (
	MinEntryMinutes  = 15
	LongEntryMinutes = 12 * 60
	LongDayMinutes   = 16 * 60
	MaxDailyMinutes  = 24 * 60
)

const (
	MsgStartBeforeEnd     = "Start time must be before end time"
	MsgMinimumDuration    = "Minimum time entry duration is 15 minutes"
	MsgOverlap            = "Time entry overlaps with existing entries"
	MsgLongDay            = "Daily total exceeds 16 hours"
	MsgLongEntry          = "Single time entry exceeds 12 hours"
	MsgDailyLimitExceeded = "Daily total cannot exceed 24 hours"
)

// Candidate is the normalized interval of an entry about to be written
type Candidate struct {
	EntryDate domain.Date
	StartTime domain.Clock
	EndTime   domain.Clock
}

// CandidateFromInput extracts the interval of a request body
func CandidateFromInput(in domain.TimeEntryInput) Candidate {
	return Candidate{EntryDate: in.EntryDate, StartTime: in.StartTime, EndTime: in.EndTime}
}

// Duration is end minus start in minutes; negative for inverted intervals.
func (c Candidate) Duration() int {
	return c.EndTime.Sub(c.StartTime)
}

// EntryValidator applies the write rules for a candidate entry against the
// user's persisted day. It never writes.
type EntryValidator struct {
	lookup   EntryLookup
	overlaps *OverlapChecker
}

func NewEntryValidator(lookup EntryLookup) *EntryValidator {
	return &EntryValidator{lookup: lookup, overlaps: NewOverlapChecker(lookup)}
}

// Validate runs every rule and returns the combined result. The error is
// reserved for storage failures; an invalid candidate is reported through
// the result. excludeID is the entry being replaced, or 0 on create.
func (v *EntryValidator) Validate(ctx context.Context, userID int64, c Candidate, excludeID int64) (*domain.ValidationResult, error) {
	result := domain.NewValidationResult(c.EntryDate)
	duration := c.Duration()

	if c.StartTime >= c.EndTime {
		result.AddError(MsgStartBeforeEnd)
	}
	if duration < MinEntryMinutes {
		result.AddError(MsgMinimumDuration)
	}

	conflicts, err := v.overlaps.Conflicts(ctx, userID, c.EntryDate, c.StartTime, c.EndTime, excludeID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		for _, e := range conflicts {
			result.AddConflict(domain.ConflictFromEntry(e))
		}
		result.AddError(MsgOverlap)
	}

	existing, err := v.lookup.SumDurationForDate(ctx, userID, c.EntryDate, excludeID)
	if err != nil {
		return nil, err
	}
	newDailyTotal := existing + duration

	if newDailyTotal > LongDayMinutes {
		result.AddWarning(MsgLongDay)
	}
	if duration > LongEntryMinutes {
		result.AddWarning(MsgLongEntry)
	}
	if newDailyTotal > MaxDailyMinutes {
		result.AddError(MsgDailyLimitExceeded)
	}

	return result, nil
}

// NewDailyTotal recomputes the total the candidate would bring the day to.
// Callers use it to describe a DAILY_LIMIT_EXCEEDED failure.
func (v *EntryValidator) NewDailyTotal(ctx context.Context, userID int64, c Candidate, excludeID int64) (int, error) {
	existing, err := v.lookup.SumDurationForDate(ctx, userID, c.EntryDate, excludeID)
	if err != nil {
		return 0, err
	}
	return existing + c.Duration(), nil
}

// OnlyDailyLimitFailed reports whether the 24 hour cap is the sole error of r
func OnlyDailyLimitFailed(r *domain.ValidationResult) bool {
	return len(r.Errors) == 1 && r.Errors[0] == MsgDailyLimitExceeded
}
