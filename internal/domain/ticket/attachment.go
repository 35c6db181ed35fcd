package ticket

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/docket-dev/docket/internal/shared/errors"
)

// MaxAttachmentBytes is the upload ceiling for a single attachment.
const MaxAttachmentBytes int64 = 10 << 20

// ErrAttachmentTooLarge is shared with blob stores so an oversized stream and an
// oversized declared size fail the same way.
var ErrAttachmentTooLarge = errors.NewValidationError("file exceeds the 10 MB limit")

// Attachment is metadata for a blob held by the external store. It is created
// once and only removed together with its ticket.
type Attachment struct {
	id           uint
	ticketID     uint
	filename     string
	originalName string
	mimeType     string
	sizeBytes    int64
	uploadedBy   string
	createdAt    time.Time
}

func NewAttachment(ticketID uint, storageKey, originalName, mimeType string, sizeBytes int64, uploadedBy string) (*Attachment, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if storageKey == "" {
		return nil, fmt.Errorf("storage key is required")
	}
	if sizeBytes <= 0 {
		return nil, errors.NewValidationError("file is empty")
	}
	if sizeBytes > MaxAttachmentBytes {
		return nil, ErrAttachmentTooLarge
	}

	name := filepath.Base(strings.TrimSpace(originalName))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &Attachment{
		ticketID:     ticketID,
		filename:     storageKey,
		originalName: name,
		mimeType:     mimeType,
		sizeBytes:    sizeBytes,
		uploadedBy:   uploadedBy,
		createdAt:    time.Now().UTC(),
	}, nil
}

func ReconstructAttachment(id, ticketID uint, filename, originalName, mimeType string, sizeBytes int64, uploadedBy string, createdAt time.Time) *Attachment {
	return &Attachment{
		id:           id,
		ticketID:     ticketID,
		filename:     filename,
		originalName: originalName,
		mimeType:     mimeType,
		sizeBytes:    sizeBytes,
		uploadedBy:   uploadedBy,
		createdAt:    createdAt,
	}
}

func (a *Attachment) ID() uint { return a.id }
func (a *Attachment) TicketID() uint { return a.ticketID }
func (a *Attachment) Filename() string { return a.filename }
func (a *Attachment) OriginalName() string { return a.originalName }
func (a *Attachment) MimeType() string { return a.mimeType }
func (a *Attachment) SizeBytes() int64 { return a.sizeBytes }
func (a *Attachment) UploadedBy() string { return a.uploadedBy }
func (a *Attachment) CreatedAt() time.Time { return a.createdAt }

func (a *Attachment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("attachment ID is already set")
	}
	a.id = id
	return nil
}
