package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NavLink is one navbar entry.
type NavLink struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
}

// Stat is a value/label pair shown in the hero.
type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Card is a titled text block.
type Card struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SectionCard is a card inside a custom section; Meta is a short caption such
// as a date range.
type SectionCard struct {
	Meta  string `json:"meta"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CustomSection is a user defined block of cards.
type CustomSection struct {
	ID          string        `json:"id"`
	Kicker      string        `json:"kicker"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Cards       []SectionCard `json:"cards"`
}

// SkillGroup groups related skills under a title.
type SkillGroup struct {
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}

// SocialLink is an external profile link.
type SocialLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// CTAButton is a call to action button; Style is primary, secondary or outline.
type CTAButton struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Style string `json:"style"`
}

// SiteSettings is the public facing content document of the global scope or
// of one site.
type SiteSettings struct {
	SiteName            string          `json:"siteName"`
	SiteTagline         string          `json:"siteTagline"`
	SiteDescription     string          `json:"siteDescription"`
	SEOTitle            string          `json:"seoTitle"`
	SEODescription      string          `json:"seoDescription"`
	SocialPreviewTitle  string          `json:"socialPreviewTitle"`
	SocialPreviewDesc   string          `json:"socialPreviewDesc"`
	PortfolioTheme      string          `json:"portfolioTheme"`
	NavbarLinks         []NavLink       `json:"navbarLinks"`
	HeroBadge           string          `json:"heroBadge"`
	HeroTitle           string          `json:"heroTitle"`
	HeroDescription     string          `json:"heroDescription"`
	HeroHighlights      []string        `json:"heroHighlights"`
	HeroStats           []Stat          `json:"heroStats"`
	AboutTitle          string          `json:"aboutTitle"`
	AboutDescription    string          `json:"aboutDescription"`
	AboutCards          []Card          `json:"aboutCards"`
	ProjectsKicker      string          `json:"projectsKicker"`
	ProjectsTitle       string          `json:"projectsTitle"`
	ProjectsDescription string          `json:"projectsDescription"`
	CustomSections      []CustomSection `json:"customSections"`
	SkillGroups         []SkillGroup    `json:"skillGroups"`
	ContactTitle        string          `json:"contactTitle"`
	ContactDescription  string          `json:"contactDescription"`
	ContactEmail        string          `json:"contactEmail"`
	SocialLinks         []SocialLink    `json:"socialLinks"`
	FooterText          string          `json:"footerText"`
	CTAButtons          []CTAButton     `json:"ctaButtons"`
}

// GlobalSettingsID is the primary key of the single global settings row.
const GlobalSettingsID = 1

// GlobalSettings stores the settings document of the global scope.
type GlobalSettings struct {
	ID        uint           `gorm:"primaryKey;autoIncrement:false"`
	Payload   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the historical table name.
func (GlobalSettings) TableName() string {
	return "site_settings"
}

// TenantSettings stores the settings document of one site.
type TenantSettings struct {
	SiteID    uuid.UUID      `gorm:"type:char(36);primaryKey"`
	Payload   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps tenant rows apart from the global settings table.
func (TenantSettings) TableName() string {
	return "tenant_site_settings"
}
