package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationResult(t *testing.T) {
	r := NewValidationResult(MustParseDate("2024-03-04"))
	assert.True(t, r.Valid)

	r.AddWarning("Daily total exceeds 16 hours")
	assert.True(t, r.Valid, "warnings never invalidate")

	r.AddConflict(ConflictFromEntry(TimeEntry{ID: 4, TaskTitle: "Coding", StartTime: NewClock(9, 0), EndTime: NewClock(10, 0)}))
	r.AddError("Time entry overlaps with existing entries")
	assert.False(t, r.Valid)
	assert.True(t, r.HasConflicts())

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"date": "2024-03-04",
		"valid": false,
		"warnings": ["Daily total exceeds 16 hours"],
		"errors": ["Time entry overlaps with existing entries"],
		"conflicts": [{"timeEntryId": 4, "taskTitle": "Coding", "startTime": "09:00", "endTime": "10:00", "conflictType": "OVERLAP"}]
	}`, string(data))
}

func TestNewValidationResult_EmptyListsEncodeAsArrays(t *testing.T) {
	data, err := json.Marshal(NewValidationResult(MustParseDate("2024-03-04")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-04","valid":true,"warnings":[],"errors":[],"conflicts":[]}`, string(data))
}
