// Package custodian wires the CLI: a local simulation of the custodian plus
// inspection of the persisted proposal registry.
package custodian

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// BuildRootCmd builds the CLI root command.
func BuildRootCmd() *cobra.Command {
	var dbPath string

	cmd := cobra.Command{
		Use:   "custodian",
		Short: "Run and inspect a basket-backed stable-token custodian simulation",
		Long:  ``,
	}

	// .env may supply CUSTODIAN_DB; an explicit flag wins.
	_ = godotenv.Load()
	defaultDB := os.Getenv("CUSTODIAN_DB")
	if defaultDB == "" {
		defaultDB = "custodian.db"
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "Path to the sqlite state database")

	cmd.AddCommand(buildDemoCmd(&dbPath))
	cmd.AddCommand(buildProposalCmd())
	cmd.AddCommand(buildRegistryCmd(&dbPath))

	return &cmd
}
