package validation

import (
	"context"

	"timesheet/internal/domain"
)

// EntryLookup is the read access the interval rules need from storage.
// Implementations must scope every query to userID.
type EntryLookup interface {
	// FindOverlapping returns the entries of the day whose interval may
	// intersect [start, end], ordered by start time. excludeID 0 excludes nothing.
	FindOverlapping(ctx context.Context, userID int64, date domain.Date, start, end domain.Clock, excludeID int64) ([]domain.TimeEntry, error)
	// SumDurationForDate totals the durations of the day, skipping excludeID.
	SumDurationForDate(ctx context.Context, userID int64, date domain.Date, excludeID int64) (int, error)
}

// Overlaps reports whether [s1, e1] and [s2, e2] intersect. Both bounds are
// inclusive, so an entry ending at 10:00 collides with one starting at 10:00.
func Overlaps(s1, e1, s2, e2 domain.Clock) bool {
	return !(e1 < s2 || s1 > e2)
}

// OverlapChecker finds persisted entries that collide with a candidate interval
type OverlapChecker struct {
	lookup EntryLookup
}

func NewOverlapChecker(lookup EntryLookup) *OverlapChecker {
	return &OverlapChecker{lookup: lookup}
}

// Conflicts returns every entry of the user's day intersecting [start, end]
// other than excludeID.
func (c *OverlapChecker) Conflicts(ctx context.Context, userID int64, date domain.Date, start, end domain.Clock, excludeID int64) ([]domain.TimeEntry, error) {
	candidates, err := c.lookup.FindOverlapping(ctx, userID, date, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	conflicts := make([]domain.TimeEntry, 0, len(candidates))
	for _, e := range candidates {
		if e.ID == excludeID && excludeID != 0 {
			continue
		}
		if Overlaps(start, end, e.StartTime, e.EndTime) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts, nil
}
