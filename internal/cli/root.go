package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "geotag",
	Short: "Geotagged product API",
	Long: `geotag serves the geotagged product API.

	geotag serve     start the HTTP server
	geotag migrate   create or update the database schema
`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
