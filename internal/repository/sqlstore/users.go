package sqlstore

import (
	"context"
)

// CreateUser inserts a user and sets its ID and timestamps
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	ts := now()
	query := s.rebind(`
	INSERT INTO users (email, name, time_zone, is_active, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id`)

	id, err := InsertReturningID(ctx, s.q, query,
		user.Email, user.Name, user.TimeZone, user.IsActive, FormatTimeForDB(ts), FormatTimeForDB(ts))
	if err != nil {
		return err
	}

	user.ID = id
	user.CreatedAt, user.UpdatedAt = ts, ts
	return nil
}

// GetUserByEmail retrieves a user by email address
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := s.rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	return QuerySingle(ctx, s.q, query, ScanUser, "user", email, email)
}
