package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"portfoliostudio/internal/auth"
	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/metrics"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/settings"
)

// DashboardStats summarizes the global scope for the control panel.
type DashboardStats struct {
	ProjectCount   int64     `json:"projectCount"`
	UnreadMessages int64     `json:"unreadMessages"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// AdminService handles the control panel principal and global dashboard.
// Global content itself goes through ContentService with the global scope.
type AdminService interface {
	Bootstrap(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type adminService struct {
	store   *repository.Store
	jwt     *auth.JWTService
	tokens  auth.TokenStoreInterface
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store *repository.Store, jwt *auth.JWTService, tokens auth.TokenStoreInterface, m *metrics.Metrics, logger *zap.Logger) AdminService {
	return &adminService{
		store:   store,
		jwt:     jwt,
		tokens:  tokens,
		metrics: m,
		logger:  orNop(logger).Named("admin"),
	}
}

// Bootstrap upserts the configured admin, creates the global settings row when
// missing and seeds the sample projects into an empty global scope. It is safe
// to run on every start.
func (s *adminService) Bootstrap(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	payload, err := json.Marshal(settings.DefaultGlobal())
	if err != nil {
		return fmt.Errorf("encode default settings: %w", err)
	}

	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Admins().Upsert(ctx, normalizeEmail(email), hash); err != nil {
			return err
		}

		inserted, err := tx.Settings().EnsureGlobal(ctx, payload)
		if err != nil {
			return err
		}
		if inserted {
			s.logger.Info("global settings initialized")
		}

		count, err := tx.Projects().Count(ctx, repository.GlobalScope())
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		s.logger.Info("seeding global sample projects")
		return tx.Projects().CreateBatch(ctx, repository.GlobalScope(), settings.GlobalSampleProjects())
	})
}

func (s *adminService) Login(ctx context.Context, email, password string) (*Session, error) {
	session, err := s.login(ctx, email, password)
	s.metrics.Login(string(auth.ScopeAdmin), err)
	return session, err
}

func (s *adminService) login(ctx context.Context, email, password string) (*Session, error) {
	admin, err := s.store.Admins().FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if admin.Role != model.AdminRole || !auth.CheckPassword(admin.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, claims, err := s.jwt.Issue(admin.ID, admin.Email, auth.ScopeAdmin)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *adminService) Logout(ctx context.Context, claims *auth.Claims) error {
	return revoke(ctx, s.tokens, claims, time.Now())
}

// Dashboard counts global projects and unread messages across every scope.
func (s *adminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	projects, err := s.store.Projects().Count(ctx, repository.GlobalScope())
	if err != nil {
		return nil, err
	}
	unread, err := s.store.Messages().CountUnread(ctx, nil)
	if err != nil {
		return nil, err
	}
	row, err := s.store.Settings().GetGlobal(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{ProjectCount: projects, UnreadMessages: unread, LastUpdated: row.UpdatedAt}, nil
}
