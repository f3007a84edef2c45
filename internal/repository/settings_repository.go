package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfoliostudio/internal/model"
)

// SettingsRepository stores raw settings documents. Decoding and
// normalization happen above this layer.
type SettingsRepository interface {
	GetGlobal(ctx context.Context) (*model.GlobalSettings, error)
	SaveGlobal(ctx context.Context, payload []byte) error
	EnsureGlobal(ctx context.Context, payload []byte) (bool, error)
	GetTenant(ctx context.Context, siteID uuid.UUID) (*model.TenantSettings, error)
	SaveTenant(ctx context.Context, siteID uuid.UUID, payload []byte) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository builds a GORM-backed repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetGlobal(ctx context.Context) (*model.GlobalSettings, error) {
	var row model.GlobalSettings
	if err := r.db.WithContext(ctx).Where("id = ?", model.GlobalSettingsID).First(&row).Error; err != nil {
		return nil, translate(err, "get global settings")
	}
	return &row, nil
}

func (r *settingsRepository) SaveGlobal(ctx context.Context, payload []byte) error {
	row := model.GlobalSettings{ID: model.GlobalSettingsID, Payload: datatypes.JSON(payload)}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"payload": row.Payload, "updated_at": time.Now().UTC()}),
	}).Create(&row).Error
	return translate(err, "save global settings")
}

// EnsureGlobal inserts the global row when it is missing and reports whether
// it did.
func (r *settingsRepository) EnsureGlobal(ctx context.Context, payload []byte) (bool, error) {
	row := model.GlobalSettings{ID: model.GlobalSettingsID, Payload: datatypes.JSON(payload)}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, translate(res.Error, "ensure global settings")
	}
	return res.RowsAffected > 0, nil
}

func (r *settingsRepository) GetTenant(ctx context.Context, siteID uuid.UUID) (*model.TenantSettings, error) {
	var row model.TenantSettings
	if err := r.db.WithContext(ctx).Where("site_id = ?", siteID).First(&row).Error; err != nil {
		return nil, translate(err, "get site settings")
	}
	return &row, nil
}

func (r *settingsRepository) SaveTenant(ctx context.Context, siteID uuid.UUID, payload []byte) error {
	row := model.TenantSettings{SiteID: siteID, Payload: datatypes.JSON(payload)}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "site_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"payload": row.Payload, "updated_at": time.Now().UTC()}),
	}).Create(&row).Error
	return translate(err, "save site settings")
}
