package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan is the billing tier of a user.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPlus Plan = "plus"
	PlanPro  Plan = "pro"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPlus, PlanPro:
		return true
	}
	return false
}

// User is a studio customer owning zero or more sites.
type User struct {
	ID                         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Email                      string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash               string     `json:"-" gorm:"size:255;not null"`
	Name                       string     `json:"name" gorm:"size:120;not null"`
	EmailVerified              bool       `json:"emailVerified" gorm:"not null;default:false"`
	EmailVerifiedAt            *time.Time `json:"emailVerifiedAt,omitempty"`
	EmailVerificationTokenHash *string    `json:"-" gorm:"size:64;index"`
	EmailVerificationExpiresAt *time.Time `json:"-"`
	Plan                       Plan       `json:"plan" gorm:"type:varchar(16);not null;default:'free'"`
	CreatedAt                  time.Time  `json:"createdAt"`
	UpdatedAt                  time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AdminRole is the only role an AdminUser carries.
const AdminRole = "admin"

// AdminUser is the principal of the global control panel. It shares nothing
// with User.
type AdminUser struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         string    `json:"role" gorm:"type:varchar(16);not null;default:'admin'"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
