package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/docket-dev/docket/internal/shared/logger"
)

var migrationName = regexp.MustCompile(`^[a-z0-9_]+$`)

// Generator writes new migration scripts into the source tree, one file per
// goose dialect and an up/down pair for golang-migrate.
type Generator struct {
	scriptsPath string
	now         func() time.Time
	logger      logger.Interface
}

// NewGenerator creates a generator rooted at the scripts directory.
func NewGenerator(scriptsPath string, log logger.Interface) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		now:         time.Now,
		logger:      log.With("component", "migration.generator"),
	}
}

// CreateMigration creates the script skeletons and returns their paths.
func (g *Generator) CreateMigration(name string) ([]string, error) {
	if !migrationName.MatchString(name) {
		return nil, fmt.Errorf("migration name must be snake_case: %q", name)
	}

	timestamp := g.now().UTC().Format("20060102150405")
	created := g.now().UTC().Format("2006-01-02 15:04:05")

	files := map[string]string{
		filepath.Join(g.scriptsPath, "goose", "mysql", fmt.Sprintf("%s_%s.sql", timestamp, name)):               gooseTemplate(name, created),
		filepath.Join(g.scriptsPath, "goose", "postgres", fmt.Sprintf("%s_%s.sql", timestamp, name)):            gooseTemplate(name, created),
		filepath.Join(g.scriptsPath, "golang-migrate", "mysql", fmt.Sprintf("%s_%s.up.sql", timestamp, name)):   upTemplate(name, created),
		filepath.Join(g.scriptsPath, "golang-migrate", "mysql", fmt.Sprintf("%s_%s.down.sql", timestamp, name)): downTemplate(name, created),
	}

	paths := make([]string, 0, len(files))
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create scripts directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	g.logger.Infow("migration files created", "name", name, "files", len(paths))
	return paths, nil
}

func gooseTemplate(name, created string) string {
	return fmt.Sprintf(`-- Migration: %s
-- Created: %s

-- +goose Up

-- +goose Down
`, name, created)
}

func upTemplate(name, created string) string {
	return fmt.Sprintf(`-- Migration: %s
-- Created: %s

`, name, created)
}

func downTemplate(name, created string) string {
	return fmt.Sprintf(`-- Rollback Migration: %s
-- Created: %s

`, name, created)
}
