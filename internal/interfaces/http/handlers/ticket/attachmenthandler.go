package ticket

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/docket-dev/docket/internal/application/ticket/usecases"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/utils"
)

const attachmentFormField = "file"

// UploadAttachment handles POST /tickets/:id/attachments
// @Summary Upload attachment
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param file formData file true "File (10 MB max)"
// @Success 201 {object} utils.APIResponse{data=dto.AttachmentDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/attachments [post]
func (h *TicketHandler) UploadAttachment(c *gin.Context) {
	actor, ticketID, err := actorAndTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	header, err := c.FormFile(attachmentFormField)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("file is required", err.Error()))
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		utils.ErrorResponseWithError(c, errors.NewValidationError(
			"file too large", fmt.Sprintf("maximum size is %d bytes", h.maxUploadBytes)))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Errorw("failed to open uploaded file", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer file.Close()

	result, err := h.uploadAttachmentUC.Execute(c.Request.Context(), usecases.UploadAttachmentCommand{
		Actor:        actor,
		TicketID:     ticketID,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		DeclaredSize: header.Size,
		Body:         file,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Attachment uploaded")
}

// ListAttachments handles GET /tickets/:id/attachments
// @Summary List attachments
// @Tags Attachments
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=[]dto.AttachmentDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/attachments [get]
func (h *TicketHandler) ListAttachments(c *gin.Context) {
	actor, ticketID, err := actorAndTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listAttachmentsUC.Execute(c.Request.Context(), usecases.ListAttachmentsQuery{
		Actor:    actor,
		TicketID: ticketID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}
