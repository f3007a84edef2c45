package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "portfoliostudio/internal/errors"
)

// Store hands out repositories bound to one database handle. Inside WithTx
// every repository shares the transaction.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Users() UserRepository { return &userRepository{db: s.db} }
func (s *Store) Admins() AdminRepository { return &adminRepository{db: s.db} }
func (s *Store) Sites() SiteRepository { return &siteRepository{db: s.db} }
func (s *Store) Settings() SettingsRepository { return &settingsRepository{db: s.db} }
func (s *Store) Projects() ProjectRepository { return &projectRepository{db: s.db} }
func (s *Store) Messages() MessageRepository { return &messageRepository{db: s.db} }
func (s *Store) Orders() OrderRepository { return &orderRepository{db: s.db} }

// Scope selects the global content tables or the tenant tables of one site.
type Scope struct {
	siteID uuid.UUID
}

// GlobalScope addresses the single-tenant global content.
func GlobalScope() Scope {
	return Scope{}
}

// SiteScope addresses the content of one site.
func SiteScope(siteID uuid.UUID) Scope {
	return Scope{siteID: siteID}
}

// IsGlobal reports whether the scope is the global one.
func (s Scope) IsGlobal() bool {
	return s.siteID == uuid.Nil
}

// SiteID returns the site of a tenant scope, uuid.Nil for the global scope.
func (s Scope) SiteID() uuid.UUID {
	return s.siteID
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return "site:" + s.siteID.String()
}

// translate maps storage errors onto the application taxonomy.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, apperrors.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
