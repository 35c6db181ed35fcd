package migration

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/docket-dev/docket/internal/infrastructure/persistence/models"
	"github.com/docket-dev/docket/internal/shared/logger"
)

// AutoMigrateModels lists every persisted model.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.TicketModel{},
		&models.TicketSequenceModel{},
		&models.ActivityModel{},
		&models.AttachmentModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the models. It backs SQLite
// deployments and tests, which have no versioned scripts.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{logger: log.With("component", "migration.automigrate")}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	seed := &models.TicketSequenceModel{Name: "tickets", NextValue: 1}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return fmt.Errorf("failed to seed ticket sequence: %w", err)
	}
	s.logger.Infow("auto-migration completed", "models", len(AutoMigrateModels()))
	return nil
}

func (s *GormAutoMigrateStrategy) MigrateDown(_ *gorm.DB, _ int) error {
	return fmt.Errorf("auto-migrate does not support down migrations")
}

func (s *GormAutoMigrateStrategy) Version(_ *gorm.DB) (int64, bool, error) {
	return 0, false, nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
