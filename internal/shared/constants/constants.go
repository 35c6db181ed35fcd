package constants

const (
	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderReporterToken = "X-Reporter-Token"
	HeaderReporterID    = "X-Reporter-Id"
	HeaderAdminUser     = "X-Admin-User"
	HeaderXRequestID    = "X-Request-ID"

	// ReporterTokenPrefix marks a bearer credential as a reporter token.
	ReporterTokenPrefix = "rt_"

	// Context keys
	ContextKeyActor = "actor"

	// Database table names
	TableTickets         = "tickets"
	TableTicketSequences = "ticket_sequences"
	TableActivities      = "ticket_activities"
	TableAttachments     = "ticket_attachments"

	// Ticket engine defaults
	DefaultTriageBatchSize = 3
	MaxTriageBatchSize     = 50
	MaxAttachmentBytes     = 10 << 20

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgTicketNotFound      = "Ticket not found"
	ErrMsgActivityNotFound    = "Activity entry not found"
)
