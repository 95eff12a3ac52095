package domain

// ConflictTypeOverlap marks a conflict caused by intersecting intervals.
const ConflictTypeOverlap = "OVERLAP"

// ConflictingEntry describes an existing entry that collides with a candidate.
type ConflictingEntry struct {
	TimeEntryID  int64  `json:"timeEntryId"`
	TaskTitle    string `json:"taskTitle"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	ConflictType string `json:"conflictType"`
}

// ConflictFromEntry builds an OVERLAP conflict for an existing entry.
func ConflictFromEntry(e TimeEntry) ConflictingEntry {
	return ConflictingEntry{
		TimeEntryID:  e.ID,
		TaskTitle:    e.TaskTitle,
		StartTime:    e.StartTime.String(),
		EndTime:      e.EndTime.String(),
		ConflictType: ConflictTypeOverlap,
	}
}

// ValidationResult is the outcome of validating a candidate entry or a whole day.
// Valid is true exactly when Errors is empty.
type ValidationResult struct {
	Date      Date               `json:"date"`
	Valid     bool               `json:"valid"`
	Warnings  []string           `json:"warnings"`
	Errors    []string           `json:"errors"`
	Conflicts []ConflictingEntry `json:"conflicts"`
}

// NewValidationResult returns a valid, empty result for the given day.
func NewValidationResult(date Date) *ValidationResult {
	return &ValidationResult{
		Date:      date,
		Valid:     true,
		Warnings:  []string{},
		Errors:    []string{},
		Conflicts: []ConflictingEntry{},
	}
}

func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddError records msg and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

func (r *ValidationResult) AddConflict(c ConflictingEntry) {
	r.Conflicts = append(r.Conflicts, c)
}

func (r *ValidationResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}
