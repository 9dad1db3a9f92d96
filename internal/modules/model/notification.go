package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeTicketUpdate  = "ticket_update"
	NotificationTypeTaskAssigned  = "task_assigned"
	NotificationTypeProjectUpdate = "project_update"
	NotificationTypeRoleChanged   = "role_changed"
)

type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type        string    `gorm:"type:text;not null" json:"type"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Message     string    `gorm:"type:text" json:"message"`
	// Read is monotonic: once true it never goes back.
	Read       bool      `gorm:"not null;default:false" json:"read"`
	EntityType string    `gorm:"type:text" json:"entity_type,omitempty"`
	EntityID   uuid.UUID `gorm:"type:uuid" json:"entity_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Recipient *User `gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
