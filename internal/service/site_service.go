package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/metrics"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/slug"
)

// maxSlugAttempts bounds re-allocation after a concurrent insert took the
// probed slug.
const maxSlugAttempts = 5

// SiteService manages the lifecycle of tenant sites.
type SiteService interface {
	Create(ctx context.Context, userID uuid.UUID, name string) (*model.Site, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Site, error)
	GetBySlug(ctx context.Context, slug string) (*model.Site, error)
	UpdateStatus(ctx context.Context, userID, siteID uuid.UUID, status model.SiteStatus) (*model.Site, error)
	Delete(ctx context.Context, userID, siteID uuid.UUID) (*repository.SiteDeletion, error)
}

type siteService struct {
	store   *repository.Store
	access  AccessService
	seeder  TenantSeeder
	content ContentService
	slugs   *slug.Allocator
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewSiteService creates a new site service.
func NewSiteService(
	store *repository.Store,
	access AccessService,
	seeder TenantSeeder,
	content ContentService,
	m *metrics.Metrics,
	logger *zap.Logger,
) SiteService {
	return &siteService{
		store:   store,
		access:  access,
		seeder:  seeder,
		content: content,
		slugs:   slug.NewAllocator(store.Sites().SlugExists),
		metrics: m,
		logger:  orNop(logger).Named("sites"),
	}
}

// Create checks the plan quota, allocates a unique slug and inserts the site
// with its owner membership, then seeds the tenant defaults.
func (s *siteService) Create(ctx context.Context, userID uuid.UUID, name string) (*model.Site, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: site name is required", apperrors.ErrValidation)
	}

	summary, err := summaryFor(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if !summary.CanCreateSite {
		return nil, fmt.Errorf("%w: %s plan allows %d site(s)", apperrors.ErrSiteLimitReached, summary.Plan, summary.MaxSites)
	}

	var site *model.Site
	for attempt := 1; ; attempt++ {
		site, err = s.insert(ctx, userID, name)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrConflict) || attempt == maxSlugAttempts {
			return nil, err
		}
		s.logger.Warn("slug taken concurrently, retrying", zap.Int("attempt", attempt), zap.String("name", name))
	}

	if err := s.seeder.EnsureDefaults(ctx, site.ID); err != nil {
		return nil, fmt.Errorf("seed site defaults: %w", err)
	}

	s.metrics.SiteCreated()
	s.logger.Info("site created",
		zap.String("site_id", site.ID.String()),
		zap.String("slug", site.Slug),
		zap.String("owner_user_id", userID.String()),
	)
	return site, nil
}

func (s *siteService) insert(ctx context.Context, userID uuid.UUID, name string) (*model.Site, error) {
	candidate, err := s.slugs.Allocate(ctx, name)
	if err != nil {
		return nil, err
	}

	site := &model.Site{
		OwnerUserID: userID,
		Name:        name,
		Slug:        candidate,
		Status:      model.SiteStatusPreview,
	}
	err = s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Sites().Create(ctx, site); err != nil {
			return err
		}
		return tx.Sites().AddMember(ctx, &model.SiteMembership{
			UserID: userID,
			SiteID: site.ID,
			Role:   model.SiteRoleOwner,
		})
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Site, error) {
	return s.store.Sites().ListForUser(ctx, userID)
}

func (s *siteService) GetBySlug(ctx context.Context, slug string) (*model.Site, error) {
	return s.store.Sites().FindBySlug(ctx, slug)
}

// UpdateStatus is owner only; launching also requires a plan that allows it.
func (s *siteService) UpdateStatus(ctx context.Context, userID, siteID uuid.UUID, status model.SiteStatus) (*model.Site, error) {
	if status != model.SiteStatusPreview && status != model.SiteStatusLaunched {
		return nil, fmt.Errorf("%w: unknown site status %q", apperrors.ErrValidation, status)
	}
	if err := s.access.RequireOwner(ctx, userID, siteID); err != nil {
		return nil, err
	}

	if status == model.SiteStatusLaunched {
		summary, err := summaryFor(ctx, s.store, userID)
		if err != nil {
			return nil, err
		}
		if !summary.CanLaunch {
			return nil, apperrors.ErrLaunchNotAllowed
		}
	}

	if err := s.store.Sites().UpdateStatus(ctx, siteID, userID, status); err != nil {
		return nil, err
	}
	s.logger.Info("site status changed", zap.String("site_id", siteID.String()), zap.String("status", string(status)))
	return s.store.Sites().FindByID(ctx, siteID)
}

// Delete removes the site and its tenant rows. Billing orders stay.
func (s *siteService) Delete(ctx context.Context, userID, siteID uuid.UUID) (*repository.SiteDeletion, error) {
	if err := s.access.RequireOwner(ctx, userID, siteID); err != nil {
		return nil, err
	}

	deleted, err := s.store.Sites().DeleteCascade(ctx, siteID)
	if err != nil {
		return nil, err
	}
	s.content.Invalidate(ctx, repository.SiteScope(siteID))

	s.metrics.SiteDeleted()
	s.logger.Info("site deleted",
		zap.String("site_id", siteID.String()),
		zap.Int64("projects", deleted.Projects),
		zap.Int64("messages", deleted.Messages),
	)
	return deleted, nil
}
