package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/repository"
)

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// MessageService manages contact messages. A nil site id addresses every
// message (control panel); otherwise only that site's messages.
type MessageService interface {
	Submit(ctx context.Context, siteSlug string, in ContactInput) (*model.Message, error)
	List(ctx context.Context, siteID *uuid.UUID, search, status string) ([]model.Message, error)
	UpdateStatus(ctx context.Context, siteID *uuid.UUID, id uuid.UUID, status model.MessageStatus) error
	Delete(ctx context.Context, siteID *uuid.UUID, id uuid.UUID) error
}

type messageService struct {
	store  *repository.Store
	logger *zap.Logger
}

// NewMessageService creates a new message service.
func NewMessageService(store *repository.Store, logger *zap.Logger) MessageService {
	return &messageService{store: store, logger: orNop(logger).Named("messages")}
}

// Submit stores a message for the site with siteSlug. An empty or unknown slug
// files the message under the global scope.
func (s *messageService) Submit(ctx context.Context, siteSlug string, in ContactInput) (*model.Message, error) {
	msg := &model.Message{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
		Status:  model.MessageStatusUnread,
	}

	if siteSlug = strings.TrimSpace(siteSlug); siteSlug != "" {
		site, err := s.store.Sites().FindBySlug(ctx, siteSlug)
		switch {
		case err == nil:
			msg.SiteID = &site.ID
		case !isNotFound(err):
			return nil, err
		}
	}

	if err := s.store.Messages().Create(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Info("message received", zap.String("message_id", msg.ID.String()), zap.Bool("tenant", msg.SiteID != nil))
	return msg, nil
}

func (s *messageService) List(ctx context.Context, siteID *uuid.UUID, search, status string) ([]model.Message, error) {
	if status != "" && status != "all" && !model.MessageStatus(status).Valid() {
		return nil, fmt.Errorf("%w: unknown message status %q", apperrors.ErrValidation, status)
	}
	return s.store.Messages().List(ctx, repository.MessageFilter{SiteID: siteID, Search: search, Status: status})
}

func (s *messageService) UpdateStatus(ctx context.Context, siteID *uuid.UUID, id uuid.UUID, status model.MessageStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown message status %q", apperrors.ErrValidation, status)
	}
	return s.store.Messages().UpdateStatus(ctx, siteID, id, status)
}

func (s *messageService) Delete(ctx context.Context, siteID *uuid.UUID, id uuid.UUID) error {
	return s.store.Messages().Delete(ctx, siteID, id)
}
