package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/rewards/internal/adapters/cli"
	"github.com/example/rewards/internal/core/merkle"
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/wire"
)

// EpochCmd returns the epoch command
func EpochCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epoch",
		Short: "Publish, correct, approve and inspect epochs",
		Long: `Epochs move from draft (published by the agent) to approved (funded by
the manager). Only approved epochs pay out claims, and a new epoch can be
published only once the previous one is approved.`,
	}

	cmd.AddCommand(epochAddCmd())
	cmd.AddCommand(epochCorrectCmd())
	cmd.AddCommand(epochApproveCmd())
	cmd.AddCommand(epochListCmd())
	cmd.AddCommand(epochShowCmd())

	return cmd
}

// rootFromFlags reads --root, or computes it from --manifest.
func rootFromFlags(cmd *cobra.Command) (merkle.Hash, error) {
	rootArg, _ := cmd.Flags().GetString("root")
	manifestPath, _ := cmd.Flags().GetString("manifest")

	switch {
	case rootArg != "" && manifestPath != "":
		return merkle.Hash{}, fmt.Errorf("use either --root or --manifest, not both")
	case rootArg != "":
		return merkle.ParseHash(rootArg)
	case manifestPath != "":
		f, err := os.Open(manifestPath)
		if err != nil {
			return merkle.Hash{}, fmt.Errorf("failed to open manifest: %w", err)
		}
		defer f.Close()
		m, err := cliadapter.ReadManifest(f)
		if err != nil {
			return merkle.Hash{}, err
		}
		tree, err := merkle.NewTree(m.Leaves)
		if err != nil {
			return merkle.Hash{}, err
		}
		return tree.Root(), nil
	default:
		return merkle.Hash{}, fmt.Errorf("one of --root or --manifest is required")
	}
}

func epochAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Publish the next draft epoch (agent only)",
		Long: `Publish the next draft epoch.

Examples:
  rewards epoch add --manifest epoch-1.yaml --asset USDC
  rewards epoch add --root 0x5f... --asset USDC --max-nodes 1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := rootFromFlags(cmd)
			if err != nil {
				return err
			}
			asset, _ := cmd.Flags().GetString("asset")
			maxNodes, _ := cmd.Flags().GetUint64("max-nodes")

			return withDeployment(cmd, func(cc commandContext) error {
				_, err := wire.EpochAdapter().Add(cc.ctx, cc.deployment, root, asset, maxNodes)
				return err
			})
		},
	}

	cmd.Flags().String("root", "", "Merkle root (0x-prefixed hex)")
	cmd.Flags().String("manifest", "", "Distribution manifest to compute the root from")
	cmd.Flags().String("asset", "", "Asset the epoch pays out (required)")
	cmd.Flags().Uint64("max-nodes", 0, "Maximum number of claims (0 for unbounded)")
	cmd.MarkFlagRequired("asset")

	return cmd
}

func epochCorrectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correct <epoch-nr>",
		Short: "Replace the root of a draft epoch (agent only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			epochNr, err := parseUintArg("epoch number", args[0])
			if err != nil {
				return err
			}
			root, err := rootFromFlags(cmd)
			if err != nil {
				return err
			}
			asset, _ := cmd.Flags().GetString("asset")

			return withDeployment(cmd, func(cc commandContext) error {
				return wire.EpochAdapter().Correct(cc.ctx, cc.deployment, epochNr, root, asset)
			})
		},
	}

	cmd.Flags().String("root", "", "Merkle root (0x-prefixed hex)")
	cmd.Flags().String("manifest", "", "Distribution manifest to compute the root from")
	cmd.Flags().String("asset", "", "New asset (empty keeps the current one)")

	return cmd
}

func epochApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve <epoch-nr>",
		Short: "Fund and approve the current epoch (manager only)",
		Long: `Fund the epoch escrow from the manager's account and approve the epoch.
The amount is in whole tokens and is scaled by the asset's decimals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			epochNr, err := parseUintArg("epoch number", args[0])
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")

			return withDeployment(cmd, func(cc commandContext) error {
				return wire.EpochAdapter().Approve(cc.ctx, cc.deployment, epochNr, amount)
			})
		},
	}

	cmd.Flags().Uint64("amount", 0, "Funding in whole tokens (required)")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func epochListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List epochs",
		RunE: func(cmd *cobra.Command, args []string) error {
			deployment, err := resolveDeployment(cmd)
			if err != nil {
				return err
			}
			approved, _ := cmd.Flags().GetBool("approved")
			limit, _ := cmd.Flags().GetInt("limit")

			return wire.EpochAdapter().List(cmd.Context(), primary.EpochFilters{
				Deployment:   deployment,
				ApprovedOnly: approved,
				Limit:        limit,
			})
		},
	}

	cmd.Flags().Bool("approved", false, "Only approved epochs")
	cmd.Flags().Int("limit", 0, "Maximum number of epochs")

	return cmd
}

func epochShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <epoch-nr>",
		Short: "Show epoch details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			epochNr, err := parseUintArg("epoch number", args[0])
			if err != nil {
				return err
			}
			deployment, err := resolveDeployment(cmd)
			if err != nil {
				return err
			}
			_, err = wire.EpochAdapter().Show(cmd.Context(), deployment, epochNr)
			return err
		},
	}
}
