package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/repository"
)

// AccessService resolves a user's role on a site. A missing membership is
// always reported as ErrNotFound so callers never confirm that a site exists.
type AccessService interface {
	Role(ctx context.Context, userID, siteID uuid.UUID) (model.SiteRole, error)
	RequireOwner(ctx context.Context, userID, siteID uuid.UUID) error
}

type accessService struct {
	store *repository.Store
}

// NewAccessService creates a new access resolver.
func NewAccessService(store *repository.Store) AccessService {
	return &accessService{store: store}
}

func (s *accessService) Role(ctx context.Context, userID, siteID uuid.UUID) (model.SiteRole, error) {
	return s.store.Sites().Role(ctx, userID, siteID)
}

func (s *accessService) RequireOwner(ctx context.Context, userID, siteID uuid.UUID) error {
	role, err := s.Role(ctx, userID, siteID)
	if err != nil {
		return err
	}
	if role != model.SiteRoleOwner {
		return apperrors.ErrForbidden
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
