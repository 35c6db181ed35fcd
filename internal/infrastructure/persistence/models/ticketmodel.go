package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/shared/constants"
)

// TicketModel is the current-state snapshot row of a ticket.
// (project_id, client_reference_id) is unique; NULL references never collide.
type TicketModel struct {
	ID                uint    `gorm:"primarykey"`
	TicketNumber      int64   `gorm:"not null;uniqueIndex:idx_tickets_number"`
	ProjectID         string  `gorm:"not null;default:'';size:100;index:idx_tickets_project_status;uniqueIndex:idx_tickets_client_ref"`
	ClientReferenceID *string `gorm:"size:191;uniqueIndex:idx_tickets_client_ref"`
	Title             string  `gorm:"not null;size:300"`
	Description       string  `gorm:"type:text;not null"`
	Source            string  `gorm:"not null;default:api;size:20"`
	TicketType        string  `gorm:"not null;size:20;index:idx_tickets_type"`
	Status            string  `gorm:"not null;default:new;size:20;index:idx_tickets_project_status"`
	Resolution        *string `gorm:"size:30"`
	Priority          string  `gorm:"not null;default:medium;size:20"`
	WorkPriority      *int
	TestingResult     *string `gorm:"size:30"`
	Tags              datatypes.JSON

	Route       string `gorm:"size:500"`
	Environment string `gorm:"size:100"`
	BrowserInfo string `gorm:"size:500"`
	OSInfo      string `gorm:"column:os_info;size:200"`

	ReporterID    string `gorm:"not null;size:191;index:idx_tickets_reporter"`
	ReporterName  string `gorm:"size:200"`
	ReporterEmail string `gorm:"size:255"`
	Assignee      string `gorm:"size:191;index:idx_tickets_assignee"`
	Direction     string `gorm:"type:text"`
	AIAssessment  datatypes.JSON

	NeedsFollowup bool   `gorm:"not null;default:false;index:idx_tickets_followup"`
	FollowupNotes string `gorm:"type:text"`
	FollowupAfter *time.Time
	ParentID      *uint `gorm:"index:idx_tickets_parent"`

	ResolutionNotes     string `gorm:"type:text"`
	TestingInstructions string `gorm:"type:text"`
	TestingURL          string `gorm:"column:testing_url;size:1000"`

	CreatedAt time.Time      `gorm:"not null;index:idx_tickets_created_at"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

// TicketSequenceModel holds the single counter row that ticket numbers are drawn from.
type TicketSequenceModel struct {
	Name      string `gorm:"primarykey;size:50"`
	NextValue int64  `gorm:"not null;default:1"`
}

func (TicketSequenceModel) TableName() string {
	return constants.TableTicketSequences
}
