package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/rewards/internal/cli"
	"github.com/example/rewards/internal/version"
	"github.com/example/rewards/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "rewards",
		Short:   "Epoch-based Merkle rewards distributor",
		Version: version.String(),
		Long: `rewards manages a Merkle rewards distribution ledger.

An agent publishes one Merkle root per epoch, the manager funds and approves
it, and receivers claim their entitlement exactly once with a proof.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("as", "", "Act as this identity instead of the configured one")
	rootCmd.PersistentFlags().String("deployment", "", "Deployment identity (defaults to the configured one)")

	// Governance
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.ManagerCmd())
	rootCmd.AddCommand(cli.AgentCmd())
	rootCmd.AddCommand(cli.EpochLengthCmd())
	rootCmd.AddCommand(cli.PauseCmd())
	rootCmd.AddCommand(cli.UnpauseCmd())

	// Distribution
	rootCmd.AddCommand(cli.EpochCmd())
	rootCmd.AddCommand(cli.ClaimCmd())
	rootCmd.AddCommand(cli.TreeCmd())
	rootCmd.AddCommand(cli.EventsCmd())

	// Ledger tools
	rootCmd.AddCommand(cli.AssetCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	err := rootCmd.Execute()
	if shutdownErr := wire.Shutdown(context.Background()); shutdownErr != nil {
		fmt.Fprintln(os.Stderr, shutdownErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
