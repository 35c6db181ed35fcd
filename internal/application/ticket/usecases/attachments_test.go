package usecases

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
)

type attachmentFixture struct {
	*activityFixture
	blobs   *mockBlobStore
	stored  []*ticket.Attachment
	deleted []string
	upload  *UploadAttachmentUseCase
	list    *ListAttachmentsUseCase
}

func newAttachmentFixture(t *testing.T) *attachmentFixture {
	t.Helper()
	af := &attachmentFixture{activityFixture: newActivityFixture(t)}
	af.blobs = &mockBlobStore{DeleteFunc: func(_ context.Context, key string) error {
		af.deleted = append(af.deleted, key)
		return nil
	}}
	attachments := &mockAttachmentRepository{
		CreateFunc: func(_ context.Context, a *ticket.Attachment) error {
			af.stored = append(af.stored, a)
			return a.SetID(uint(len(af.stored)))
		},
		ListByTicketFunc: func(_ context.Context, ticketID uint) ([]*ticket.Attachment, error) {
			var out []*ticket.Attachment
			for _, a := range af.stored {
				if a.TicketID() == ticketID {
					out = append(out, a)
				}
			}
			return out, nil
		},
	}
	tickets := af.store.ticketRepo()
	af.upload = NewUploadAttachmentUseCase(tickets, attachments, af.store.activityRepo(), af.blobs, policyChecker{}, &mockTransactor{}, logger.NewNopLogger())
	af.list = NewListAttachmentsUseCase(tickets, attachments, policyChecker{})
	return af
}

func (af *attachmentFixture) uploadCmd(body string) UploadAttachmentCommand {
	return UploadAttachmentCommand{
		Actor:        reporter,
		TicketID:     af.ticketID,
		OriginalName: "screen shot.png",
		MimeType:     "image/png",
		DeclaredSize: int64(len(body)),
		Body:         strings.NewReader(body),
	}
}

func TestUploadAttachment_Success(t *testing.T) {
	af := newAttachmentFixture(t)

	att, err := af.upload.Execute(context.Background(), af.uploadCmd("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, uint(1), att.ID)
	assert.Equal(t, "blob-key", att.Filename)
	assert.Equal(t, "screen shot.png", att.OriginalName)
	assert.Equal(t, int64(7), att.SizeBytes)
	assert.Equal(t, "Uma", att.UploadedBy)

	entries := af.store.entriesFor(af.ticketID)
	require.Len(t, entries, 2)
	entry := entries[1]
	assert.Equal(t, vo.ActivitySystem, entry.Type())
	assert.Equal(t, vo.VisibilityUserVisible, entry.Visibility())
	require.NotNil(t, entry.Content())
	assert.Equal(t, "Attachment added: screen shot.png", *entry.Content())
	meta, ok := entry.Metadata().(ticket.SystemMetadata)
	require.True(t, ok)
	assert.Equal(t, ticket.SystemEventAttachmentAdded, meta.Event)
	assert.Equal(t, uint(1), meta.AttachmentID)

	listed, err := af.list.Execute(context.Background(), ListAttachmentsQuery{Actor: reporter, TicketID: af.ticketID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, att.ID, listed[0].ID)
}

func TestUploadAttachment_RejectsOversizedDeclaredSize(t *testing.T) {
	af := newAttachmentFixture(t)
	putCalled := false
	af.blobs.PutFunc = func(context.Context, uint, string, io.Reader) (string, int64, error) {
		putCalled = true
		return "", 0, nil
	}

	cmd := af.uploadCmd("x")
	cmd.DeclaredSize = ticket.MaxAttachmentBytes + 1
	_, err := af.upload.Execute(context.Background(), cmd)
	assert.True(t, errors.IsValidationError(err))
	assert.False(t, putCalled)
}

func TestUploadAttachment_StreamTooLargePassesThrough(t *testing.T) {
	af := newAttachmentFixture(t)
	af.blobs.PutFunc = func(context.Context, uint, string, io.Reader) (string, int64, error) {
		return "", 0, ticket.ErrAttachmentTooLarge
	}

	_, err := af.upload.Execute(context.Background(), af.uploadCmd("x"))
	assert.Equal(t, ticket.ErrAttachmentTooLarge, err)
	assert.Empty(t, af.stored)
}

func TestUploadAttachment_StoreFailureIsWrapped(t *testing.T) {
	af := newAttachmentFixture(t)
	af.blobs.PutFunc = func(context.Context, uint, string, io.Reader) (string, int64, error) {
		return "", 0, fmt.Errorf("disk full")
	}

	_, err := af.upload.Execute(context.Background(), af.uploadCmd("x"))
	require.Error(t, err)
	assert.False(t, errors.IsAppError(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestUploadAttachment_FailedRecordRemovesBlob(t *testing.T) {
	af := newAttachmentFixture(t)

	_, err := af.upload.Execute(context.Background(), af.uploadCmd(""))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, []string{"blob-key"}, af.deleted)
	assert.Len(t, af.store.entriesFor(af.ticketID), 1)
}

func TestUploadAttachment_Access(t *testing.T) {
	af := newAttachmentFixture(t)

	cmd := af.uploadCmd("data")
	cmd.Actor = stranger
	_, err := af.upload.Execute(context.Background(), cmd)
	assert.True(t, errors.IsNotFoundError(err))

	cmd = af.uploadCmd("data")
	cmd.Body = nil
	_, err = af.upload.Execute(context.Background(), cmd)
	assert.True(t, errors.IsValidationError(err))

	_, err = af.list.Execute(context.Background(), ListAttachmentsQuery{Actor: stranger, TicketID: af.ticketID})
	assert.True(t, errors.IsNotFoundError(err))
	assert.Empty(t, af.stored)
}
