package migrate

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"sentra/internal/infrastructure/config"
	"sentra/internal/infrastructure/database"
	"sentra/internal/infrastructure/persistence/models"
	"sentra/internal/infrastructure/persistence/seeds"
	"sentra/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the database schema and seed the authorization reference data.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply the schema and seed reference data",
		Long:  `Create or update all tables and seed the permission catalog, system roles and their baseline grants.`,
		RunE:  runUp,
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show schema status",
		Long:  `Report which of the expected tables exist in the target database.`,
		RunE:  runStatus,
	}
}

func allModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.BranchModel{},
		&models.DepartmentModel{},
		&models.RoleModel{},
		&models.PermissionModel{},
		&models.RolePermissionModel{},
		&models.UserRoleAssignmentModel{},
		&models.UserBranchAccessModel{},
	}
}

// Run applies the schema and seeds against an already-open connection.
// The server's --auto-migrate path reuses it.
func Run(db *gorm.DB, log logger.Interface) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return seeds.SeedAuthz(db, log)
}

func initEnv() (logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return logger.NewLogger(), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := Run(database.Get(), log); err != nil {
		return err
	}

	log.Info("schema migrated and reference data seeded")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	migrator := database.Get().Migrator()
	for _, model := range allModels() {
		stmt := &gorm.Statement{DB: database.Get()}
		if err := stmt.Parse(model); err != nil {
			return err
		}
		fmt.Printf("%-25s exists=%v\n", stmt.Schema.Table, migrator.HasTable(model))
	}
	return nil
}
