package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
)

func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected field errors, got %v", err)
	return ve.Errors
}

func fieldNames(errs []FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

func intPtr(i int) *int { return &i }

func TestValidator_IsValidHexColor(t *testing.T) {
	v := NewValidator()

	for _, ok := range []string{"#3498db", "#FFFFFF", "#000000", "#aBcDeF"} {
		assert.True(t, v.IsValidHexColor(ok), ok)
	}
	for _, bad := range []string{"", "3498db", "#3498d", "#3498dbb", "#GGGGGG", "red", "#34 8db"} {
		assert.False(t, v.IsValidHexColor(bad), bad)
	}
}

func TestValidator_IsValidStringLength_CountsRunes(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsValidStringLength("ééé", 1, 3))
	assert.False(t, v.IsValidStringLength("éééé", 1, 3))
	assert.False(t, v.IsValidStringLength("", 1, 3))
}

func TestCategoryValidator_ValidateCategoryInput(t *testing.T) {
	tests := []struct {
		name           string
		input          domain.CategoryInput
		expectedFields []string
		expectedInput  func(t *testing.T, in domain.CategoryInput)
	}{
		{
			name:  "valid input is trimmed",
			input: domain.CategoryInput{Title: "  Work  ", Description: " client projects "},
			expectedInput: func(t *testing.T, in domain.CategoryInput) {
				assert.Equal(t, "Work", in.Title)
				assert.Equal(t, "client projects", in.Description)
			},
		},
		{
			name:           "blank title",
			input:          domain.CategoryInput{Title: "   "},
			expectedFields: []string{"title"},
		},
		{
			name:           "title too long",
			input:          domain.CategoryInput{Title: strings.Repeat("a", 256)},
			expectedFields: []string{"title"},
		},
		{
			name:           "description too long and negative sort order",
			input:          domain.CategoryInput{Title: "Work", Description: strings.Repeat("d", 1001), SortOrder: intPtr(-1)},
			expectedFields: []string{"description", "sortOrder"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			err := NewCategoryValidator().ValidateCategoryInput(&in)

			if tt.expectedFields == nil {
				require.NoError(t, err)
			} else {
				assert.Equal(t, tt.expectedFields, fieldNames(fieldErrors(t, err)))
			}
			if tt.expectedInput != nil {
				tt.expectedInput(t, in)
			}
		})
	}
}

func TestCategoryValidator_ValidateReorder(t *testing.T) {
	cv := NewCategoryValidator()

	assert.NoError(t, cv.ValidateReorder([]int64{3, 1, 2}))
	assert.Equal(t, []string{"categoryIds"}, fieldNames(fieldErrors(t, cv.ValidateReorder(nil))))

	errs := fieldErrors(t, cv.ValidateReorder([]int64{1, 0, 1}))
	require.Len(t, errs, 2)
	assert.Contains(t, errs[1].Message, "duplicates")
}

func TestTaskValidator_ValidateTaskForCreation(t *testing.T) {
	tests := []struct {
		name           string
		input          domain.TaskInput
		expectedFields []string
	}{
		{
			name:  "valid",
			input: domain.TaskInput{CategoryID: 1, Title: "Coding", Color: "#3498db", Icon: "code"},
		},
		{
			name:           "missing category and color",
			input:          domain.TaskInput{Title: "Coding"},
			expectedFields: []string{"categoryId", "color"},
		},
		{
			name:           "bad color",
			input:          domain.TaskInput{CategoryID: 1, Title: "Coding", Color: "blue"},
			expectedFields: []string{"color"},
		},
		{
			name:           "icon too long",
			input:          domain.TaskInput{CategoryID: 1, Title: "Coding", Color: "#3498db", Icon: strings.Repeat("i", 51)},
			expectedFields: []string{"icon"},
		},
		{
			name:           "everything wrong",
			input:          domain.TaskInput{Title: "", Description: strings.Repeat("d", 1001), Color: "#12345", SortOrder: intPtr(-2)},
			expectedFields: []string{"categoryId", "title", "description", "color", "sortOrder"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			err := NewTaskValidator().ValidateTaskForCreation(&in)
			if tt.expectedFields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.expectedFields, fieldNames(fieldErrors(t, err)))
		})
	}
}

func TestTaskValidator_ValidateTaskForUpdate(t *testing.T) {
	tv := NewTaskValidator()

	in := domain.TaskInput{Title: " Review ", Color: "#ABCDEF"}
	require.NoError(t, tv.ValidateTaskForUpdate(4, &in))
	assert.Equal(t, "Review", in.Title)

	in = domain.TaskInput{Title: "Review", Color: "#ABCDEF"}
	assert.Equal(t, []string{"id"}, fieldNames(fieldErrors(t, tv.ValidateTaskForUpdate(0, &in))))
}

func TestTaskValidator_ValidateReorder(t *testing.T) {
	tv := NewTaskValidator()

	assert.NoError(t, tv.ValidateReorder(1, []int64{2, 3}))
	assert.Equal(t, []string{"categoryId", "taskIds"}, fieldNames(fieldErrors(t, tv.ValidateReorder(0, nil))))
}

func TestTimeEntryValidator_ValidateTimeEntryInput(t *testing.T) {
	tev := NewTimeEntryValidator()

	in := domain.TimeEntryInput{
		TaskID:      1,
		EntryDate:   domain.MustParseDate("2024-03-04"),
		StartTime:   domain.NewClock(9, 0),
		EndTime:     domain.NewClock(10, 0),
		Description: "  standup ",
	}
	require.NoError(t, tev.ValidateTimeEntryInput(&in))
	assert.Equal(t, "standup", in.Description)

	// interval rules are not field rules
	in.EndTime = domain.NewClock(9, 5)
	assert.NoError(t, tev.ValidateTimeEntryInput(&in))

	empty := domain.TimeEntryInput{}
	assert.Equal(t, []string{"taskId", "entryDate"}, fieldNames(fieldErrors(t, tev.ValidateTimeEntryInput(&empty))))
}

func TestTimeEntryValidator_ValidateBulkInput(t *testing.T) {
	tev := NewTimeEntryValidator()
	date := domain.MustParseDate("2024-03-04")

	in := domain.BulkTimeEntryInput{
		EntryDate: date,
		TimeEntries: []domain.TimeEntryInput{
			{TaskID: 1, EntryDate: domain.MustParseDate("1999-01-01"), StartTime: domain.NewClock(9, 0), EndTime: domain.NewClock(10, 0)},
			{TaskID: 2, StartTime: domain.NewClock(10, 0), EndTime: domain.NewClock(11, 0)},
		},
	}
	require.NoError(t, tev.ValidateBulkInput(&in))
	for _, item := range in.TimeEntries {
		assert.Equal(t, date, item.EntryDate)
	}

	in.TimeEntries[1].TaskID = 0
	in.TimeEntries[1].Description = strings.Repeat("d", 1001)
	assert.Equal(t,
		[]string{"timeEntries[1].taskId", "timeEntries[1].description"},
		fieldNames(fieldErrors(t, tev.ValidateBulkInput(&in))))

	empty := domain.BulkTimeEntryInput{}
	errs := fieldErrors(t, tev.ValidateBulkInput(&empty))
	assert.Equal(t, []string{"entryDate", "timeEntries"}, fieldNames(errs))
	assert.Equal(t, "At least one time entry is required", errs[1].Message)
}

func TestTimeEntryValidator_ValidateTimeEntryID(t *testing.T) {
	tev := NewTimeEntryValidator()

	assert.NoError(t, tev.ValidateTimeEntryID(1))
	assert.Error(t, tev.ValidateTimeEntryID(0))
	assert.Error(t, tev.ValidateTimeEntryID(-3))
}
