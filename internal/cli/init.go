package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/rewards/internal/config"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/db"
	"github.com/example/rewards/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a rewards deployment",
		Long: `Create the governance record for a deployment with the caller as manager.

A new deployment identity is generated unless --deployment is given. The
deployment is saved to .rewards/config.json so later commands pick it up.

Examples:
  rewards init --agent 8Yb7...
  rewards init --agent 8Yb7... --epoch-length 86400`,
		RunE: func(cmd *cobra.Command, args []string) error {
			agentArg, _ := cmd.Flags().GetString("agent")
			agent, err := parseIdentityArg("--agent", agentArg)
			if err != nil {
				return err
			}
			epochLength, _ := cmd.Flags().GetUint64("epoch-length")

			deployment := newIdentity()
			if dep, _ := cmd.Flags().GetString("deployment"); dep != "" {
				if deployment, err = parseIdentityArg("--deployment", dep); err != nil {
					return err
				}
			}

			ctx, err := callerContext(cmd)
			if err != nil {
				return err
			}

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}
			fmt.Printf("Using ledger at %s\n", dbPath)

			if _, err := wire.GovernanceAdapter().Initialize(ctx, deployment, agent, epochLength); err != nil {
				return err
			}

			if err := saveDeployment(deployment); err != nil {
				return fmt.Errorf("failed to save deployment: %w", err)
			}
			fmt.Println("✓ Deployment saved to .rewards/config.json")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  rewards asset create <asset> --decimals 6")
			fmt.Println("  rewards tree root <manifest.yaml>")
			fmt.Println("  rewards epoch add --manifest <manifest.yaml> --asset <asset>")

			return nil
		},
	}

	cmd.Flags().String("agent", "", "Agent identity allowed to publish epochs (required)")
	cmd.Flags().Uint64("epoch-length", 0, "Advisory epoch length in seconds")
	cmd.MarkFlagRequired("agent")

	return cmd
}

// saveDeployment records the deployment in the working directory config,
// keeping any other settings already there.
func saveDeployment(deployment identity.Identity) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		cfg = &config.Config{}
	}
	cfg.Deployment = deployment.String()
	return config.SaveConfig(dir, cfg)
}
