package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/docket-dev/docket/internal/shared/constants"
)

// ActivityModel is one append-only timeline row. Only the visibility and
// approval columns are ever updated after insert.
type ActivityModel struct {
	ID               uint    `gorm:"primarykey"`
	TicketID         uint    `gorm:"not null;index:idx_activities_ticket_created,priority:1"`
	ActivityType     string  `gorm:"not null;size:30"`
	AuthorType       string  `gorm:"not null;size:20"`
	AuthorName       string  `gorm:"not null;size:200"`
	Content          *string `gorm:"type:text"`
	Metadata         datatypes.JSON
	Visibility       string  `gorm:"not null;default:internal;size:20"`
	RequiresApproval bool    `gorm:"not null;default:false"`
	ApprovedBy       *string `gorm:"size:200"`
	ApprovedAt       *time.Time
	CreatedAt        time.Time `gorm:"not null;index:idx_activities_ticket_created,priority:2"`
}

func (ActivityModel) TableName() string {
	return constants.TableActivities
}
