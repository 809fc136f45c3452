package cli

import (
	"context"
	"fmt"

	"github.com/BradenHooton/tourexpress/internal/background"
	"github.com/spf13/cobra"
)

func newSweepKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-keys",
		Short: "Issue security keys to every admin that lacks one, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			sweeper := background.NewKeySweeper(a.accounts, a.elevation, logger, cfg.Auth.KeySweepInterval)
			issued := sweeper.RunOnce(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "issued %d security key(s)\n", issued)
			return nil
		},
	}
}
