package models

import (
	"time"

	"github.com/docket-dev/docket/internal/shared/constants"
)

type AttachmentModel struct {
	ID           uint      `gorm:"primarykey"`
	TicketID     uint      `gorm:"not null;index"`
	Filename     string    `gorm:"not null;size:255;uniqueIndex"`
	OriginalName string    `gorm:"not null;size:255"`
	MimeType     string    `gorm:"not null;size:100"`
	SizeBytes    int64     `gorm:"not null"`
	UploadedBy   string    `gorm:"not null;size:200"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (AttachmentModel) TableName() string {
	return constants.TableAttachments
}
