package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfoliostudio/internal/model"
)

// Models lists every persisted model.
func Models() []interface{} {
	return []interface{}{
		&model.AdminUser{},
		&model.User{},
		&model.Site{},
		&model.SiteMembership{},
		&model.GlobalSettings{},
		&model.TenantSettings{},
		&model.Project{},
		&model.TenantProject{},
		&model.Message{},
		&model.BillingOrder{},
	}
}

// columnMigration adds one column to a table created by an older release.
type columnMigration struct {
	model    interface{}
	field    string
	indexed  bool
	backfill func(tx *gorm.DB) error
}

func columnMigrations() []columnMigration {
	return []columnMigration{
		{model: &model.Message{}, field: "SiteID", indexed: true},
		{model: &model.User{}, field: "Plan"},
		{model: &model.User{}, field: "EmailVerified", backfill: grandfatherVerifiedUsers},
		{model: &model.User{}, field: "EmailVerifiedAt"},
		{model: &model.User{}, field: "EmailVerificationTokenHash", indexed: true},
		{model: &model.User{}, field: "EmailVerificationExpiresAt"},
	}
}

// grandfatherVerifiedUsers marks accounts created before verification existed
// as verified.
func grandfatherVerifiedUsers(tx *gorm.DB) error {
	return tx.Model(&model.User{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			"email_verified":    true,
			"email_verified_at": time.Now().UTC(),
		}).Error
}

// Migrate creates missing tables and applies additive column migrations. It
// never drops or rewrites existing columns and is safe to run on every boot.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	conn := db.WithContext(ctx)
	migrator := conn.Migrator()

	for _, m := range Models() {
		if migrator.HasTable(m) {
			continue
		}
		if err := migrator.CreateTable(m); err != nil {
			return fmt.Errorf("create table for %T: %w", m, err)
		}
		log.Info("created table", zap.String("model", fmt.Sprintf("%T", m)))
	}

	// Backfills run once every column exists, since a backfill may write
	// columns added by a later step.
	var backfills []columnMigration
	for _, c := range columnMigrations() {
		if migrator.HasColumn(c.model, c.field) {
			continue
		}
		err := conn.Transaction(func(tx *gorm.DB) error {
			if err := tx.Migrator().AddColumn(c.model, c.field); err != nil {
				return err
			}
			if c.indexed && !tx.Migrator().HasIndex(c.model, c.field) {
				return tx.Migrator().CreateIndex(c.model, c.field)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("add column %T.%s: %w", c.model, c.field, err)
		}
		log.Info("added column", zap.String("model", fmt.Sprintf("%T", c.model)), zap.String("field", c.field))
		if c.backfill != nil {
			backfills = append(backfills, c)
		}
	}

	for _, c := range backfills {
		if err := conn.Transaction(c.backfill); err != nil {
			return fmt.Errorf("backfill %T.%s: %w", c.model, c.field, err)
		}
		log.Info("backfilled column", zap.String("model", fmt.Sprintf("%T", c.model)), zap.String("field", c.field))
	}

	return nil
}
