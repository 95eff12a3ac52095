package domain

import "time"

// Local admin identity used when no authentication is configured.
const (
	LocalAdminEmail     = "admin@localhost"
	LocalAdminName      = "Local Admin"
	DefaultUserTimeZone = "UTC"
)

// User owns categories and time entries.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	TimeZone  string    `json:"timeZone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Location resolves the user's time zone, falling back to UTC.
func (u User) Location() *time.Location {
	if u.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
