package sqlstore

import (
	"database/sql"
	"time"
)

// FormatTimeForDB formats a timestamp as RFC3339 UTC text so that values sort lexicographically
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// parseNullTime returns nil for NULL columns
func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTimeFromDB(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// now is replaced in tests that need stable timestamps
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
