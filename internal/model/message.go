package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageStatus represents the triage state of a contact message.
type MessageStatus string

const (
	MessageStatusUnread   MessageStatus = "unread"
	MessageStatusRead     MessageStatus = "read"
	MessageStatusArchived MessageStatus = "archived"
)

// Valid reports whether s is a known message status.
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusUnread, MessageStatusRead, MessageStatusArchived:
		return true
	}
	return false
}

// Message is a contact form submission. A nil SiteID belongs to the global scope.
type Message struct {
	ID        uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	SiteID    *uuid.UUID    `json:"siteId" gorm:"type:char(36);index"`
	Name      string        `json:"name" gorm:"size:100;not null"`
	Email     string        `json:"email" gorm:"size:255;not null"`
	Subject   string        `json:"subject" gorm:"size:200;not null"`
	Message   string        `json:"message" gorm:"type:text;not null"`
	Status    MessageStatus `json:"status" gorm:"type:varchar(16);not null;default:'unread';index"`
	CreatedAt time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// BeforeCreate sets UUID and the initial status before creating the record.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MessageStatusUnread
	}
	return nil
}
