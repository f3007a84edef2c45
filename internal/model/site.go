package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SiteStatus represents the publication state of a site.
type SiteStatus string

const (
	SiteStatusPreview  SiteStatus = "preview"
	SiteStatusLaunched SiteStatus = "launched"
)

// SiteRole is the role a user holds on a site.
type SiteRole string

const (
	SiteRoleOwner SiteRole = "owner"
)

// Site is one tenant's portfolio instance.
type Site struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerUserID uuid.UUID  `json:"ownerUserId" gorm:"type:char(36);not null;index"`
	Name        string     `json:"name" gorm:"size:120;not null"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;size:80;not null"`
	Status      SiteStatus `json:"status" gorm:"type:varchar(16);not null;default:'preview'"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Site) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SiteMembership grants a user a role on a site. Its existence is the only
// authorization signal for tenant access.
type SiteMembership struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);primaryKey"`
	SiteID    uuid.UUID `json:"siteId" gorm:"type:char(36);primaryKey;index"`
	Role      SiteRole  `json:"role" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `json:"createdAt"`
}
