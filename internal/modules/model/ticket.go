package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"

	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in-progress"
	TicketStatusResolved   = "resolved"
)

type Ticket struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Title    string    `gorm:"type:text;not null" json:"title"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	Priority string    `gorm:"type:text;not null;default:'medium'" json:"priority"`
	Status   string    `gorm:"type:text;not null;default:'open'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Ticket) TableName() string { return "tickets" }
