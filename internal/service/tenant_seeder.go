package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/settings"
)

// TenantSeeder makes sure a site has a settings document and starter projects.
type TenantSeeder interface {
	EnsureDefaults(ctx context.Context, siteID uuid.UUID) error
}

type tenantSeeder struct {
	store  *repository.Store
	logger *zap.Logger
}

// NewTenantSeeder creates a seeder.
func NewTenantSeeder(store *repository.Store, logger *zap.Logger) TenantSeeder {
	return &tenantSeeder{store: store, logger: orNop(logger).Named("seeder")}
}

// EnsureDefaults is idempotent. In one transaction it
//   - inserts the studio template when the site has no settings,
//   - replaces settings that still carry the legacy shared template,
//   - inserts the starter projects when the site has none.
//
// Existing projects short-circuit project seeding regardless of settings.
func (s *tenantSeeder) EnsureDefaults(ctx context.Context, siteID uuid.UUID) error {
	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		site, err := tx.Sites().FindByID(ctx, siteID)
		if err != nil {
			return err
		}

		template, err := json.Marshal(settings.StudioTemplate(site.Name))
		if err != nil {
			return fmt.Errorf("encode studio template: %w", err)
		}

		current, err := tx.Settings().GetTenant(ctx, siteID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			if err := tx.Settings().SaveTenant(ctx, siteID, template); err != nil {
				return err
			}
		case err != nil:
			return err
		case settings.MatchesLegacyFingerprint(current.Payload):
			s.logger.Info("replacing legacy template settings", zap.String("site_id", siteID.String()))
			if err := tx.Settings().SaveTenant(ctx, siteID, template); err != nil {
				return err
			}
		}

		scope := repository.SiteScope(siteID)
		count, err := tx.Projects().Count(ctx, scope)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Projects().CreateBatch(ctx, scope, settings.StarterProjects())
	})
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
