package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/infrastructure/persistence/models"
	db "github.com/docket-dev/docket/internal/shared/db"
	apperrors "github.com/docket-dev/docket/internal/shared/errors"
)

const ticketSequenceName = "tickets"

// TicketNumberGenerator draws ticket numbers from a counter row. The UPDATE
// holds the row lock until the creating transaction ends, so numbers from
// committed tickets never repeat.
type TicketNumberGenerator struct {
	db *gorm.DB
}

func NewTicketNumberGenerator(db *gorm.DB) *TicketNumberGenerator {
	return &TicketNumberGenerator{db: db}
}

func (g *TicketNumberGenerator) Next(ctx context.Context) (int64, error) {
	tx := db.GetTxFromContext(ctx, g.db)

	for attempt := 0; attempt < 2; attempt++ {
		result := tx.Model(&models.TicketSequenceModel{}).
			Where("name = ?", ticketSequenceName).
			UpdateColumn("next_value", gorm.Expr("next_value + 1"))
		if result.Error != nil {
			return 0, fmt.Errorf("failed to advance ticket sequence: %w", result.Error)
		}

		if result.RowsAffected == 1 {
			var seq models.TicketSequenceModel
			if err := tx.Where("name = ?", ticketSequenceName).First(&seq).Error; err != nil {
				return 0, fmt.Errorf("failed to read ticket sequence: %w", err)
			}
			return seq.NextValue - 1, nil
		}

		// First ticket ever: seed the counter. A concurrent seeder wins the
		// primary key and we go back to the UPDATE path.
		err := tx.Create(&models.TicketSequenceModel{Name: ticketSequenceName, NextValue: 2}).Error
		if err == nil {
			return 1, nil
		}
		if !apperrors.IsDuplicateError(err) {
			return 0, fmt.Errorf("failed to seed ticket sequence: %w", err)
		}
	}
	return 0, fmt.Errorf("failed to allocate ticket number")
}
