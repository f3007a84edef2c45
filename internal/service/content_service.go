package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfoliostudio/internal/cache"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/settings"
)

const publicContentTTL = 5 * time.Minute

// SettingsView is a normalized settings document plus its storage timestamps.
type SettingsView struct {
	model.SiteSettings
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Content bundles a settings document with a project list.
type Content struct {
	Settings SettingsView    `json:"settings"`
	Projects []model.Project `json:"projects"`
}

// ContentService is the single entry point for settings and project access.
// Every tenant call first runs the tenant seeder, so callers never observe a
// site without defaults. Public bundles are cached per scope and dropped on
// every write to that scope.
type ContentService interface {
	Settings(ctx context.Context, scope repository.Scope) (*SettingsView, error)
	SaveSettings(ctx context.Context, scope repository.Scope, doc model.SiteSettings) (*SettingsView, error)
	Projects(ctx context.Context, scope repository.Scope) ([]model.Project, error)
	CreateProject(ctx context.Context, scope repository.Scope, project *model.Project) (*model.Project, error)
	UpdateProject(ctx context.Context, scope repository.Scope, id uuid.UUID, project *model.Project) (*model.Project, error)
	DeleteProject(ctx context.Context, scope repository.Scope, id uuid.UUID) error
	ReorderProjects(ctx context.Context, scope repository.Scope, items []model.ReorderItem) ([]model.Project, error)
	Editor(ctx context.Context, scope repository.Scope) (*Content, error)
	Public(ctx context.Context, scope repository.Scope) (*Content, error)
	Invalidate(ctx context.Context, scope repository.Scope)
}

type contentService struct {
	store  *repository.Store
	seeder TenantSeeder
	cache  *cache.Client
	logger *zap.Logger
}

// NewContentService creates the content facade. cache may be nil.
func NewContentService(store *repository.Store, seeder TenantSeeder, cache *cache.Client, logger *zap.Logger) ContentService {
	return &contentService{
		store:  store,
		seeder: seeder,
		cache:  cache,
		logger: orNop(logger).Named("content"),
	}
}

// prepare makes sure a tenant scope is initialized.
func (s *contentService) prepare(ctx context.Context, scope repository.Scope) error {
	if scope.IsGlobal() {
		return nil
	}
	if err := s.seeder.EnsureDefaults(ctx, scope.SiteID()); err != nil {
		return fmt.Errorf("prepare %s: %w", scope, err)
	}
	return nil
}

func publicKey(scope repository.Scope) string {
	return "content:public:" + scope.String()
}

// Invalidate drops the cached public bundle of scope.
func (s *contentService) Invalidate(ctx context.Context, scope repository.Scope) {
	if err := s.cache.Delete(ctx, publicKey(scope)); err != nil {
		s.logger.Warn("invalidate public content", zap.Error(err), zap.Stringer("scope", scope))
	}
}

func (s *contentService) Settings(ctx context.Context, scope repository.Scope) (*SettingsView, error) {
	if err := s.prepare(ctx, scope); err != nil {
		return nil, err
	}
	return s.loadSettings(ctx, scope)
}

func (s *contentService) loadSettings(ctx context.Context, scope repository.Scope) (*SettingsView, error) {
	if scope.IsGlobal() {
		row, err := s.store.Settings().GetGlobal(ctx)
		if err != nil {
			return nil, err
		}
		doc, err := settings.Normalize(row.Payload, settings.DefaultGlobal())
		if err != nil {
			return nil, err
		}
		return &SettingsView{SiteSettings: doc, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}, nil
	}

	site, err := s.store.Sites().FindByID(ctx, scope.SiteID())
	if err != nil {
		return nil, err
	}
	row, err := s.store.Settings().GetTenant(ctx, scope.SiteID())
	if err != nil {
		return nil, err
	}
	doc, err := settings.Normalize(row.Payload, settings.StudioTemplate(site.Name))
	if err != nil {
		return nil, err
	}
	return &SettingsView{SiteSettings: doc, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}, nil
}

func (s *contentService) SaveSettings(ctx context.Context, scope repository.Scope, doc model.SiteSettings) (*SettingsView, error) {
	if err := s.prepare(ctx, scope); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(settings.NormalizeDocument(doc))
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	if scope.IsGlobal() {
		err = s.store.Settings().SaveGlobal(ctx, payload)
	} else {
		err = s.store.Settings().SaveTenant(ctx, scope.SiteID(), payload)
	}
	if err != nil {
		return nil, err
	}

	s.Invalidate(ctx, scope)
	s.logger.Info("settings saved", zap.Stringer("scope", scope))
	return s.loadSettings(ctx, scope)
}

func (s *contentService) Projects(ctx context.Context, scope repository.Scope) ([]model.Project, error) {
	if err := s.prepare(ctx, scope); err != nil {
		return nil, err
	}
	return s.store.Projects().List(ctx, scope, false)
}

func (s *contentService) CreateProject(ctx context.Context, scope repository.Scope, project *model.Project) (*model.Project, error) {
	if err := s.prepare(ctx, scope); err != nil {
		return nil, err
	}
	project.ID = uuid.Nil
	if err := s.store.Projects().Create(ctx, scope, project); err != nil {
		return nil, err
	}
	s.Invalidate(ctx, scope)
	return project, nil
}

func (s *contentService) UpdateProject(ctx context.Context, scope repository.Scope, id uuid.UUID, project *model.Project) (*model.Project, error) {
	if err := s.prepare(ctx, scope); err != nil {
		return nil, err
	}
	updated, err := s.store.Projects().Update(ctx, scope, id, project)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, scope)
	return updated, nil
}

func (s *contentService) DeleteProject(ctx context.Context, scope repository.Scope, id uuid.UUID) error {
	if err := s.prepare(ctx, scope); err != nil {
		return err
	}
	if err := s.store.Projects().Delete(ctx, scope, id); err != nil {
		return err
	}
	s.Invalidate(ctx, scope)
	return nil
}

func (s *contentService) ReorderProjects(ctx context.Context, scope repository.Scope, items []model.ReorderItem) ([]model.Project, error) {
	if err := s.prepare(ctx, scope); err != nil {
		return nil, err
	}
	if err := s.store.Projects().Reorder(ctx, scope, items); err != nil {
		return nil, err
	}
	s.Invalidate(ctx, scope)
	return s.store.Projects().List(ctx, scope, false)
}

// Editor returns settings and every project, published or not.
func (s *contentService) Editor(ctx context.Context, scope repository.Scope) (*Content, error) {
	return s.bundle(ctx, scope, false)
}

// Public returns settings and the published projects, served from cache when
// possible.
func (s *contentService) Public(ctx context.Context, scope repository.Scope) (*Content, error) {
	key := publicKey(scope)
	var cached Content
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	content, err := s.bundle(ctx, scope, true)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, key, content, publicContentTTL); err != nil {
		s.logger.Warn("cache public content", zap.Error(err), zap.Stringer("scope", scope))
	}
	return content, nil
}

func (s *contentService) bundle(ctx context.Context, scope repository.Scope, publishedOnly bool) (*Content, error) {
	if err := s.prepare(ctx, scope); err != nil {
		return nil, err
	}
	view, err := s.loadSettings(ctx, scope)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.Projects().List(ctx, scope, publishedOnly)
	if err != nil {
		return nil, err
	}
	return &Content{Settings: *view, Projects: projects}, nil
}
