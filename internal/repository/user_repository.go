package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/model"
)

// UserRepository defines persistence operations for studio users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	SetVerificationToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	ConsumeVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, plan model.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "create user")
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "find user by email")
	}
	return &user, nil
}

func (r *userRepository) SetVerificationToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email_verification_token_hash": tokenHash,
			"email_verification_expires_at": expiresAt,
		})
	if res.Error != nil {
		return translate(res.Error, "set verification token")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "set verification token")
	}
	return nil
}

// ConsumeVerificationToken marks the owner of an unexpired token as verified
// and clears the token so it cannot be used twice.
func (r *userRepository) ConsumeVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email_verification_token_hash = ? AND email_verification_expires_at > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "find verification token")
	}

	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND email_verification_token_hash = ?", user.ID, tokenHash).
		Updates(map[string]interface{}{
			"email_verified":                true,
			"email_verified_at":             now,
			"email_verification_token_hash": nil,
			"email_verification_expires_at": nil,
		})
	if res.Error != nil {
		return nil, translate(res.Error, "consume verification token")
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}

	user.EmailVerified = true
	user.EmailVerifiedAt = &now
	user.EmailVerificationTokenHash = nil
	user.EmailVerificationExpiresAt = nil
	return &user, nil
}

func (r *userRepository) UpdatePlan(ctx context.Context, id uuid.UUID, plan model.Plan) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("plan", plan)
	if res.Error != nil {
		return translate(res.Error, "update plan")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update plan")
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return translate(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete user")
	}
	return nil
}

// AdminRepository defines persistence operations for control panel admins.
type AdminRepository interface {
	Upsert(ctx context.Context, email, passwordHash string) (*model.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository builds a GORM-backed repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Upsert creates the admin or overwrites the password of an existing one.
func (r *adminRepository) Upsert(ctx context.Context, email, passwordHash string) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	switch {
	case err == nil:
		admin.PasswordHash = passwordHash
		admin.Role = model.AdminRole
		if err := r.db.WithContext(ctx).Save(&admin).Error; err != nil {
			return nil, translate(err, "update admin")
		}
	case err == gorm.ErrRecordNotFound:
		admin = model.AdminUser{Email: email, PasswordHash: passwordHash, Role: model.AdminRole}
		if err := r.db.WithContext(ctx).Create(&admin).Error; err != nil {
			return nil, translate(err, "create admin")
		}
	default:
		return nil, translate(err, "find admin")
	}
	return &admin, nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, translate(err, "find admin")
	}
	return &admin, nil
}
