package model

import "time"

// SystemSettingsID is the primary key of the singleton settings row.
const SystemSettingsID = 1

type SystemSettings struct {
	ID                        int    `gorm:"primaryKey" json:"-"`
	SiteName                  string `gorm:"type:text;not null;default:'ArabShield'" json:"site_name"`
	MaintenanceMode           bool   `gorm:"not null;default:false" json:"maintenance_mode"`
	AllowNewRegistrations     bool   `gorm:"not null;default:true" json:"allow_new_registrations"`
	DefaultUserRole           string `gorm:"type:text;not null;default:'client'" json:"default_user_role"`
	MaxProjectsPerUser        int    `gorm:"not null;default:10" json:"max_projects_per_user"`
	EmailNotificationsEnabled bool   `gorm:"not null;default:true" json:"email_notifications_enabled"`

	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SystemSettings) TableName() string { return "system_settings" }
