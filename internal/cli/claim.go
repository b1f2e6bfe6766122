package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/rewards/internal/adapters/cli"
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/wire"
)

// ClaimCmd returns the claim command
func ClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim an entitlement from an approved epoch",
		Long: `Claim an entitlement as the receiver committed in the epoch's tree.

The proof comes either from a file written by 'rewards tree proof' or from
--index, --amount and --proof given explicitly. Funds go to the caller's
account for the asset unless --destination names another account the
caller owns.

Examples:
  rewards claim --epoch 1 --asset USDC --proof-file leaf-3.yaml
  rewards claim --epoch 1 --asset USDC --index 3 --amount 50 --proof 0xab..,0xcd..`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := claimRequestFromFlags(cmd)
			if err != nil {
				return err
			}
			return withDeployment(cmd, func(cc commandContext) error {
				req.Deployment = cc.deployment
				return wire.ClaimAdapter().Claim(cc.ctx, req)
			})
		},
	}

	cmd.Flags().Uint64("epoch", 0, "Epoch number (required)")
	cmd.Flags().String("asset", "", "Asset of the epoch (required)")
	cmd.Flags().String("proof-file", "", "Proof document from 'rewards tree proof'")
	cmd.Flags().Uint64("index", 0, "Leaf index")
	cmd.Flags().Uint64("amount", 0, "Entitled amount in base units")
	cmd.Flags().String("proof", "", "Comma-separated sibling digests")
	cmd.Flags().String("destination", "", "Destination account (defaults to the caller's)")
	cmd.MarkFlagRequired("epoch")
	cmd.MarkFlagRequired("asset")

	cmd.AddCommand(claimStatusCmd())
	cmd.AddCommand(claimListCmd())

	return cmd
}

func claimRequestFromFlags(cmd *cobra.Command) (primary.ClaimRequest, error) {
	var req primary.ClaimRequest
	req.EpochNr, _ = cmd.Flags().GetUint64("epoch")
	req.AssetID, _ = cmd.Flags().GetString("asset")

	if dest, _ := cmd.Flags().GetString("destination"); dest != "" {
		id, err := parseIdentityArg("--destination", dest)
		if err != nil {
			return req, err
		}
		req.Destination = id
	}

	proofFile, _ := cmd.Flags().GetString("proof-file")
	if proofFile != "" {
		if cmd.Flags().Changed("proof") || cmd.Flags().Changed("index") || cmd.Flags().Changed("amount") {
			return req, fmt.Errorf("--proof-file cannot be combined with --index, --amount or --proof")
		}
		f, err := os.Open(proofFile)
		if err != nil {
			return req, fmt.Errorf("failed to open proof file: %w", err)
		}
		defer f.Close()
		doc, err := cliadapter.ReadProofDocument(f)
		if err != nil {
			return req, err
		}
		req.LeafIndex = doc.Index
		req.Amount = doc.Amount
		req.Proof = doc.Proof
		return req, nil
	}

	if !cmd.Flags().Changed("index") || !cmd.Flags().Changed("amount") {
		return req, fmt.Errorf("either --proof-file or both --index and --amount are required")
	}
	req.LeafIndex, _ = cmd.Flags().GetUint64("index")
	req.Amount, _ = cmd.Flags().GetUint64("amount")
	proofArg, _ := cmd.Flags().GetString("proof")
	proof, err := parseProof(proofArg)
	if err != nil {
		return req, err
	}
	req.Proof = proof
	return req, nil
}

func claimStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether a leaf has been claimed",
		RunE: func(cmd *cobra.Command, args []string) error {
			deployment, err := resolveDeployment(cmd)
			if err != nil {
				return err
			}
			epochNr, _ := cmd.Flags().GetUint64("epoch")
			index, _ := cmd.Flags().GetUint64("index")

			_, err = wire.ClaimAdapter().Status(cmd.Context(), primary.ClaimStatusRequest{
				Deployment: deployment,
				EpochNr:    epochNr,
				LeafIndex:  index,
			})
			return err
		},
	}

	cmd.Flags().Uint64("epoch", 0, "Epoch number (required)")
	cmd.Flags().Uint64("index", 0, "Leaf index (required)")
	cmd.MarkFlagRequired("epoch")
	cmd.MarkFlagRequired("index")

	return cmd
}

func claimListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the claims of an epoch",
		RunE: func(cmd *cobra.Command, args []string) error {
			deployment, err := resolveDeployment(cmd)
			if err != nil {
				return err
			}
			epochNr, _ := cmd.Flags().GetUint64("epoch")
			return wire.ClaimAdapter().List(cmd.Context(), deployment, epochNr)
		},
	}

	cmd.Flags().Uint64("epoch", 0, "Epoch number (required)")
	cmd.MarkFlagRequired("epoch")

	return cmd
}

