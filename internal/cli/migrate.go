package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/geotag_api/internal/config"
	"github.com/Skotchmaster/geotag_api/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the users and products tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

		gdb, err := db.Open(cmd.Context(), cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close(gdb) }()

		if err := db.Migrate(cmd.Context(), gdb); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
