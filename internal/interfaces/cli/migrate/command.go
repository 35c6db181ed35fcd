package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/infrastructure/config"
	"github.com/docket-dev/docket/internal/infrastructure/database"
	"github.com/docket-dev/docket/internal/infrastructure/migration"
	"github.com/docket-dev/docket/internal/shared/logger"
)

var (
	env          string
	configPath   string
	name         string
	steps        int
	forceVersion int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
		newForceCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create goose and golang-migrate script skeletons with the specified name.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newForceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "force",
		Short: "Force the golang-migrate version",
		Long:  `Set the golang-migrate schema version without running scripts, clearing the dirty flag.`,
		RunE:  runForce,
	}

	cmd.Flags().IntVarP(&forceVersion, "version", "v", 0, "Version to force (required)")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func initEnv() (*config.Config, logger.Interface, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath, env)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

func openManager() (*migration.Manager, *gorm.DB, logger.Interface, error) {
	cfg, log, err := initEnv()
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	manager, err := migration.NewManager(&cfg.Database, log)
	if err != nil {
		database.Close()
		return nil, nil, nil, err
	}
	return manager, database.Get(), log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	manager, db, log, err := openManager()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "strategy", manager.GetStrategy().GetName())

	if err := manager.Migrate(db); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	manager, db, log, err := openManager()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := manager.Rollback(db, steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, db, log, err := openManager()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	version, dirty, err := manager.Version(db)
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	info := manager.GetStrategyInfo()
	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Environment:     %s\n", env)
	fmt.Printf("  Strategy:        %v\n", info["name"])
	fmt.Printf("  Current Version: %d\n", version)
	fmt.Printf("  Dirty:           %t\n", dirty)

	if goose, ok := manager.GetStrategy().(*migration.GooseStrategy); ok {
		if err := goose.Status(db); err != nil {
			log.Errorw("failed to get detailed status", "error", err)
			return fmt.Errorf("failed to get detailed status: %w", err)
		}
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	_, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()

	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		return fmt.Errorf("failed to get scripts path: %w", err)
	}

	paths, err := migration.NewGenerator(scriptsPath, log).CreateMigration(name)
	if err != nil {
		log.Errorw("failed to create migration", "error", err)
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Printf("Migration '%s' created:\n", name)
	for _, p := range paths {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func runForce(cmd *cobra.Command, args []string) error {
	manager, _, log, err := openManager()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	gm, ok := manager.GetStrategy().(*migration.GolangMigrateStrategy)
	if !ok {
		return fmt.Errorf("force is only supported with the golang-migrate strategy")
	}

	if err := gm.Force(forceVersion); err != nil {
		log.Errorw("failed to force version", "version", forceVersion, "error", err)
		return fmt.Errorf("failed to force version: %w", err)
	}

	log.Infow("migration version forced", "version", forceVersion)
	return nil
}
