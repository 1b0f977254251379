// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"debteraser/internal/cache"
	"debteraser/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateEmail is returned when a user insert violates the email
// uniqueness constraint.
var ErrDuplicateEmail = models.NewConflictError("Email already exists")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GrantAccess(ctx context.Context, email, membershipType string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// GrantAccess upserts a user by email and sets the access flags for the paid
// membership. It is the only code path that grants access: called after the
// payment gateway confirms a succeeded intent, never on client say-so.
func (r *userRepository) GrantAccess(ctx context.Context, email, membershipType string) (*models.User, error) {
	email = strings.ToLower(email)

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Email: email,
			Name:  strings.SplitN(email, "@", 2)[0],
		}
		if createErr := r.db.WithContext(ctx).Create(&user).Error; createErr != nil {
			if !isUniqueViolation(createErr) {
				return nil, models.NewInternalError(createErr)
			}
			// Lost a race with a concurrent registration; re-read.
			if readErr := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; readErr != nil {
				return nil, models.NewInternalError(readErr)
			}
		}
	case err != nil:
		return nil, models.NewInternalError(err)
	}

	user.MembershipType = membershipType
	user.HasCommunityAccess = true
	if membershipType == models.MembershipConsult {
		user.HasConsultAccess = true
	}

	if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return &user, nil
}

// isUniqueViolation reports whether err is a uniqueness-constraint violation.
// PostgreSQL surfaces SQLSTATE 23505 via pgconn; the sqlite driver used in
// tests reports a UNIQUE constraint message instead.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
