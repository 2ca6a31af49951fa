package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecosprout",
	Short: "ecoSprout marketplace API",
	Long: `ecoSprout marketplace API. Without a subcommand it starts the HTTP server.

	ecosprout serve
	ecosprout backfill-eco-scores
`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
