package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/shared/config"
	"github.com/docket-dev/docket/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy for the configured driver: AutoMigrate for
// SQLite, otherwise the configured script runner.
func NewManager(cfg *config.DatabaseConfig, log logger.Interface) (*Manager, error) {
	strategy, err := strategyFor(cfg, log)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy, log), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func strategyFor(cfg *config.DatabaseConfig, log logger.Interface) (Strategy, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewGormAutoMigrateStrategy(log), nil
	case "postgres":
		if cfg.MigrationTool == "golang-migrate" {
			return nil, fmt.Errorf("golang-migrate scripts are only provided for mysql")
		}
		return NewGooseStrategy("postgres", log), nil
	case "", "mysql":
		if cfg.MigrationTool == "golang-migrate" {
			return NewGolangMigrateStrategy(cfg.GetDSN(), log), nil
		}
		return NewGooseStrategy("mysql", log), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// Rollback undoes the last steps versions.
func (m *Manager) Rollback(db *gorm.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}
	return m.strategy.MigrateDown(db, steps)
}

// Version reports the applied schema version.
func (m *Manager) Version(db *gorm.DB) (int64, bool, error) {
	return m.strategy.Version(db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// GetStrategyInfo returns information about the current strategy
func (m *Manager) GetStrategyInfo() map[string]interface{} {
	return map[string]interface{}{
		"name":        m.strategy.GetName(),
		"description": getStrategyDescription(m.strategy.GetName()),
	}
}

func getStrategyDescription(strategyName string) string {
	switch strategyName {
	case "gorm_auto_migrate":
		return "GORM AutoMigrate - Automatic schema migration based on struct definitions"
	case "golang_migrate":
		return "golang-migrate - Version-controlled SQL migration scripts"
	case "goose":
		return "goose - Version-controlled SQL migration scripts with up/down sections"
	default:
		return "Unknown migration strategy"
	}
}
