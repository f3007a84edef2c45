package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfoliostudio/internal/model"
)

// SiteDeletion reports how many rows a cascading site delete removed per table.
type SiteDeletion struct {
	Projects    int64 `json:"projects"`
	Settings    int64 `json:"settings"`
	Messages    int64 `json:"messages"`
	Memberships int64 `json:"memberships"`
	Sites       int64 `json:"sites"`
}

// SiteRepository defines persistence operations for sites and memberships.
type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	AddMember(ctx context.Context, membership *model.SiteMembership) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Site, error)
	FindBySlug(ctx context.Context, slug string) (*model.Site, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Site, error)
	CountOwned(ctx context.Context, userID uuid.UUID) (int64, error)
	Role(ctx context.Context, userID, siteID uuid.UUID) (model.SiteRole, error)
	UpdateStatus(ctx context.Context, siteID, ownerID uuid.UUID, status model.SiteStatus) error
	DeleteCascade(ctx context.Context, siteID uuid.UUID) (*SiteDeletion, error)
}

type siteRepository struct {
	db *gorm.DB
}

// NewSiteRepository builds a GORM-backed repository.
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Create(ctx context.Context, site *model.Site) error {
	return translate(r.db.WithContext(ctx).Create(site).Error, "create site")
}

func (r *siteRepository) AddMember(ctx context.Context, membership *model.SiteMembership) error {
	return translate(r.db.WithContext(ctx).Create(membership).Error, "add site member")
}

func (r *siteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&site).Error; err != nil {
		return nil, translate(err, "find site")
	}
	return &site, nil
}

func (r *siteRepository) FindBySlug(ctx context.Context, slug string) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&site).Error; err != nil {
		return nil, translate(err, "find site by slug")
	}
	return &site, nil
}

func (r *siteRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Site{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, translate(err, "probe slug")
	}
	return count > 0, nil
}

// ListForUser returns every site the user is a member of, newest first.
func (r *siteRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Site, error) {
	var sites []model.Site
	err := r.db.WithContext(ctx).
		Joins("INNER JOIN site_memberships ON site_memberships.site_id = sites.id").
		Where("site_memberships.user_id = ?", userID).
		Order("sites.created_at DESC").
		Find(&sites).Error
	if err != nil {
		return nil, translate(err, "list sites")
	}
	return sites, nil
}

func (r *siteRepository) CountOwned(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Site{}).Where("owner_user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, translate(err, "count sites")
	}
	return count, nil
}

func (r *siteRepository) Role(ctx context.Context, userID, siteID uuid.UUID) (model.SiteRole, error) {
	var membership model.SiteMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND site_id = ?", userID, siteID).
		First(&membership).Error
	if err != nil {
		return "", translate(err, "find membership")
	}
	return membership.Role, nil
}

func (r *siteRepository) UpdateStatus(ctx context.Context, siteID, ownerID uuid.UUID, status model.SiteStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Site{}).
		Where("id = ? AND owner_user_id = ?", siteID, ownerID).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error, "update site status")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update site status")
	}
	return nil
}

// DeleteCascade removes a site and every tenant row it owns in one
// transaction. Billing orders are not touched.
func (r *siteRepository) DeleteCascade(ctx context.Context, siteID uuid.UUID) (*SiteDeletion, error) {
	var out SiteDeletion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			model   interface{}
			counter *int64
		}{
			{&model.TenantProject{}, &out.Projects},
			{&model.TenantSettings{}, &out.Settings},
			{&model.Message{}, &out.Messages},
			{&model.SiteMembership{}, &out.Memberships},
		}
		for _, step := range steps {
			res := tx.Where("site_id = ?", siteID).Delete(step.model)
			if res.Error != nil {
				return res.Error
			}
			*step.counter = res.RowsAffected
		}

		res := tx.Where("id = ?", siteID).Delete(&model.Site{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		out.Sites = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, translate(err, "delete site")
	}
	return &out, nil
}
