package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectLink is an extra labelled link shown on a project card.
type ProjectLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Project is a portfolio entry of the global scope. List valued fields are
// stored as JSON text.
type Project struct {
	ID           uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Title        string        `json:"title" gorm:"size:255;not null"`
	Subtitle     string        `json:"subtitle" gorm:"size:255;not null"`
	Description  string        `json:"description" gorm:"type:text;not null"`
	Category     string        `json:"category" gorm:"size:64;not null"`
	Tags         []string      `json:"tags" gorm:"type:text;serializer:json;not null"`
	TechStack    []string      `json:"techStack" gorm:"type:text;serializer:json;not null"`
	ThumbnailURL *string       `json:"thumbnailUrl"`
	Gallery      []string      `json:"gallery" gorm:"type:text;serializer:json;not null"`
	GithubURL    *string       `json:"githubUrl"`
	LiveURL      *string       `json:"liveUrl"`
	DownloadURL  *string       `json:"downloadUrl"`
	CustomLinks  []ProjectLink `json:"customLinks" gorm:"type:text;serializer:json;not null"`
	IsPublished  bool          `json:"isPublished" gorm:"not null;index"`
	SortOrder    int           `json:"sortOrder" gorm:"not null;index"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FillEmptyLists replaces nil list fields with empty lists so they persist
// as [] rather than null.
func (p *Project) FillEmptyLists() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if p.CustomLinks == nil {
		p.CustomLinks = []ProjectLink{}
	}
}

// TenantProject is a Project owned by one site.
type TenantProject struct {
	Project
	SiteID uuid.UUID `json:"siteId" gorm:"type:char(36);not null;index"`
}

// TableName keeps tenant rows apart from the global projects table.
func (TenantProject) TableName() string {
	return "tenant_projects"
}

// ReorderItem assigns a new sort order to one project.
type ReorderItem struct {
	ID        uuid.UUID `json:"id"`
	SortOrder int       `json:"sortOrder"`
}
