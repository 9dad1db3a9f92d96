package model

import (
	"time"

	"github.com/google/uuid"
)

// Role values, ordered by increasing privilege.
const (
	RoleClient = "client"
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleOwner  = "owner"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email       string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	DisplayName string    `gorm:"type:text;not null" json:"display_name"`
	// PasswordPHC holds the argon2id hash in PHC string format.
	PasswordPHC string `gorm:"column:password_phc;type:text;not null" json:"-"`
	Verified    bool   `gorm:"not null;default:false" json:"verified"`
	// Role may be empty for profiles created before role provisioning;
	// readers must resolve an empty value to RoleClient.
	Role string `gorm:"type:text;not null;default:'client'" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// User <-> AccountSession
	Sessions []AccountSession `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// User <-> Project
	Projects []Project `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// User <-> Ticket
	Tickets []Ticket `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// User <-> Notification
	Notifications []Notification `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (User) TableName() string { return "users" }
