package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfoliostudio/internal/model"
)

// MessageFilter narrows a message listing. Search and Status combine with AND.
// A nil SiteID lists every message; otherwise only that site's messages.
type MessageFilter struct {
	SiteID *uuid.UUID
	Search string
	Status string
}

// MessageRepository defines persistence operations for contact messages.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	List(ctx context.Context, filter MessageFilter) ([]model.Message, error)
	UpdateStatus(ctx context.Context, siteID *uuid.UUID, id uuid.UUID, status model.MessageStatus) error
	Delete(ctx context.Context, siteID *uuid.UUID, id uuid.UUID) error
	CountUnread(ctx context.Context, siteID *uuid.UUID) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository builds a GORM-backed repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func (r *messageRepository) scoped(ctx context.Context, siteID *uuid.UUID) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Message{})
	if siteID != nil {
		q = q.Where("site_id = ?", *siteID)
	}
	return q
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return translate(r.db.WithContext(ctx).Create(message).Error, "create message")
}

// List returns matching messages, newest first.
func (r *messageRepository) List(ctx context.Context, filter MessageFilter) ([]model.Message, error) {
	q := r.scoped(ctx, filter.SiteID)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where(
			"(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(subject) LIKE ? ESCAPE '!' OR LOWER(message) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern, pattern,
		)
	}
	if status := strings.TrimSpace(filter.Status); status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}

	var messages []model.Message
	if err := q.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, translate(err, "list messages")
	}
	return messages, nil
}

func (r *messageRepository) UpdateStatus(ctx context.Context, siteID *uuid.UUID, id uuid.UUID, status model.MessageStatus) error {
	res := r.scoped(ctx, siteID).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error, "update message status")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update message status")
	}
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, siteID *uuid.UUID, id uuid.UUID) error {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if siteID != nil {
		q = q.Where("site_id = ?", *siteID)
	}
	res := q.Delete(&model.Message{})
	if res.Error != nil {
		return translate(res.Error, "delete message")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete message")
	}
	return nil
}

func (r *messageRepository) CountUnread(ctx context.Context, siteID *uuid.UUID) (int64, error) {
	var count int64
	err := r.scoped(ctx, siteID).Where("status = ?", model.MessageStatusUnread).Count(&count).Error
	if err != nil {
		return 0, translate(err, "count unread messages")
	}
	return count, nil
}
