package services

import (
	"context"

	"github.com/charmbracelet/log"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlstore"
)

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	repo   sqlstore.Repository
	mapper *domain.Mapper
	logger *log.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(repo sqlstore.Repository, logger *log.Logger) UserService {
	return &userServiceImpl{
		repo:   repo,
		mapper: domain.NewMapper(),
		logger: logger,
	}
}

func (u *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row, err := u.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	user := u.mapper.User.FromDatabase(*row)
	return &user, nil
}

// EnsureLocalAdmin returns the local admin, bootstrapping it on first access
func (u *userServiceImpl) EnsureLocalAdmin(ctx context.Context) (*domain.User, error) {
	user, err := u.GetUserByEmail(ctx, domain.LocalAdminEmail)
	if err == nil {
		return user, nil
	}
	if !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return nil, err
	}

	row := u.mapper.User.ToDatabase(domain.User{
		Email:    domain.LocalAdminEmail,
		Name:     domain.LocalAdminName,
		TimeZone: domain.DefaultUserTimeZone,
		IsActive: true,
	})

	err = u.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		if err := tx.CreateUser(ctx, &row); err != nil {
			return err
		}
		category, _, err := ensureDefaultCategory(ctx, tx, row.ID)
		if err != nil {
			return err
		}
		_, _, err = ensureDefaultTask(ctx, tx, row.ID, category.ID)
		return err
	})
	if err != nil {
		// another process created the admin between our read and insert
		if errors.IsErrorType(err, errors.ErrorTypeValidation) {
			return u.GetUserByEmail(ctx, domain.LocalAdminEmail)
		}
		return nil, err
	}

	u.logger.Info("Created local admin user", "email", row.Email, "user", row.ID)
	created := u.mapper.User.FromDatabase(row)
	return &created, nil
}
