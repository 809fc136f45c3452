package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/tourexpress/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := runMigrations(ctx, db.SQL.DB, direction); err != nil {
				return err
			}
			logger.Info("migrate finished", slog.String("direction", direction))
			return nil
		},
	}
	return cmd
}

func runMigrations(ctx context.Context, db *sql.DB, direction string) error {
	switch direction {
	case "up":
		return database.Migrate(ctx, db)
	case "down":
		return database.MigrateDown(ctx, db)
	case "status":
		return database.MigrationStatus(ctx, db)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
}
