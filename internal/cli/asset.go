package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/wire"
)

// AssetCmd returns the asset command
func AssetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Provision assets and inspect balances",
		Long: `Assets live in the ledger next to the distributor. These commands create
assets and mint balances so managers can fund epochs.`,
	}

	createCmd := &cobra.Command{
		Use:   "create <asset>",
		Short: "Register an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decimals, _ := cmd.Flags().GetUint8("decimals")
			return wire.AssetAdapter().Create(cmd.Context(), args[0], decimals)
		},
	}
	createCmd.Flags().Uint8("decimals", 0, "Decimal places of the asset")
	cmd.AddCommand(createCmd)

	mintCmd := &cobra.Command{
		Use:   "mint <owner|self> <amount>",
		Short: "Credit base units to an owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ownerArg(args[0])
			if err != nil {
				return err
			}
			amount, err := parseUintArg("amount", args[1])
			if err != nil {
				return err
			}
			asset, _ := cmd.Flags().GetString("asset")
			return wire.AssetAdapter().Mint(cmd.Context(), owner, asset, amount)
		},
	}
	mintCmd.Flags().String("asset", "", "Asset to mint (required)")
	mintCmd.MarkFlagRequired("asset")
	cmd.AddCommand(mintCmd)

	balanceCmd := &cobra.Command{
		Use:   "balance [owner|self]",
		Short: "Show an owner's balance (defaults to self)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			who := "self"
			if len(args) == 1 {
				who = args[0]
			}
			owner, err := ownerArg(who)
			if err != nil {
				return err
			}
			asset, _ := cmd.Flags().GetString("asset")
			return wire.AssetAdapter().Balance(cmd.Context(), owner, asset)
		},
	}
	balanceCmd.Flags().String("asset", "", "Asset to inspect (required)")
	balanceCmd.MarkFlagRequired("asset")
	cmd.AddCommand(balanceCmd)

	return cmd
}

// ownerArg resolves "self" to the configured identity.
func ownerArg(value string) (identity.Identity, error) {
	if value != "self" {
		return parseIdentityArg("owner", value)
	}
	id, err := wire.Config().CallerIdentity()
	if err != nil {
		return identity.Zero, fmt.Errorf("cannot resolve self: %w", err)
	}
	return id, nil
}
