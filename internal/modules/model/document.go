package model

import (
	"time"

	"github.com/google/uuid"
)

// Document is the metadata record for a blob stored in S3. BlobKey is the
// object key; download URLs are presigned on read and never persisted.
type Document struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	Filename   string    `gorm:"type:text;not null" json:"filename"`
	FileSize   int64     `gorm:"type:bigint;not null" json:"file_size"`
	FileType   string    `gorm:"type:text;not null" json:"file_type"`
	BlobKey    string    `gorm:"column:blob_key;type:text;not null;uniqueIndex" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"uploaded_at"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Document) TableName() string { return "documents" }
