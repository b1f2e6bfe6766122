package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
	"github.com/example/rewards/internal/ports/primary"
)

// EpochAdapter translates CLI operations to EpochService calls.
type EpochAdapter struct {
	service primary.EpochService
	out     io.Writer
}

// NewEpochAdapter creates a new EpochAdapter with the given service.
func NewEpochAdapter(service primary.EpochService, out io.Writer) *EpochAdapter {
	return &EpochAdapter{
		service: service,
		out:     out,
	}
}

// Add creates the next draft epoch.
func (a *EpochAdapter) Add(ctx context.Context, deployment identity.Identity, root merkle.Hash, assetID string, maxNumNodes uint64) (*primary.Epoch, error) {
	epoch, err := a.service.AddEpoch(ctx, primary.AddEpochRequest{
		Deployment:  deployment,
		Root:        root,
		AssetID:     assetID,
		MaxNumNodes: maxNumNodes,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created epoch %d (draft)\n", epoch.EpochNr)
	fmt.Fprintf(a.out, "  Root:   %s\n", epoch.MerkleRoot)
	fmt.Fprintf(a.out, "  Escrow: %s\n", epoch.Escrow)
	return epoch, nil
}

// Correct replaces the root (and optionally the asset) of a draft epoch.
func (a *EpochAdapter) Correct(ctx context.Context, deployment identity.Identity, epochNr uint64, root merkle.Hash, assetID string) error {
	epoch, err := a.service.CorrectEpoch(ctx, primary.CorrectEpochRequest{
		Deployment: deployment,
		EpochNr:    epochNr,
		Root:       root,
		AssetID:    assetID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Corrected epoch %d: root %s asset %s\n", epoch.EpochNr, epoch.MerkleRoot, epoch.AssetID)
	return nil
}

// Approve funds and approves an epoch.
func (a *EpochAdapter) Approve(ctx context.Context, deployment identity.Identity, epochNr, amount uint64) error {
	epoch, err := a.service.ApproveEpoch(ctx, primary.ApproveEpochRequest{
		Deployment:    deployment,
		EpochNr:       epochNr,
		FundingAmount: amount,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Approved epoch %d, funded %d base units of %s\n", epoch.EpochNr, epoch.FundedAmount, epoch.AssetID)
	return nil
}

// List lists the epochs of a deployment.
func (a *EpochAdapter) List(ctx context.Context, filters primary.EpochFilters) error {
	epochs, err := a.service.ListEpochs(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list epochs: %w", err)
	}

	if len(epochs) == 0 {
		fmt.Fprintln(a.out, "No epochs found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EPOCH\tSTATUS\tASSET\tCLAIMED\tNODES\tROOT")
	for _, e := range epochs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d\t%s\t%s\n",
			e.EpochNr, approvalMarker(e.IsApproved), e.AssetID,
			e.TotalAmountClaimed, e.MaxTotalClaim, nodeCount(e), e.MerkleRoot)
	}
	return w.Flush()
}

// Show displays details for a single epoch.
func (a *EpochAdapter) Show(ctx context.Context, deployment identity.Identity, epochNr uint64) (*primary.Epoch, error) {
	epoch, err := a.service.GetEpoch(ctx, deployment, epochNr)
	if err != nil {
		return nil, fmt.Errorf("failed to get epoch: %w", err)
	}

	fmt.Fprintf(a.out, "\nEpoch:   %d\n", epoch.EpochNr)
	fmt.Fprintf(a.out, "Status:  %s\n", approvalMarker(epoch.IsApproved))
	fmt.Fprintf(a.out, "Key:     %s\n", epoch.Key)
	fmt.Fprintf(a.out, "Root:    %s\n", epoch.MerkleRoot)
	fmt.Fprintf(a.out, "Asset:   %s\n", epoch.AssetID)
	fmt.Fprintf(a.out, "Escrow:  %s\n", epoch.Escrow)
	if epoch.IsApproved {
		fmt.Fprintf(a.out, "Funded:  %d\n", epoch.FundedAmount)
		fmt.Fprintf(a.out, "Claimed: %d/%d\n", epoch.TotalAmountClaimed, epoch.MaxTotalClaim)
		fmt.Fprintf(a.out, "Nodes:   %s\n", nodeCount(epoch))
		fmt.Fprintf(a.out, "Approved: %s\n", epoch.ApprovedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(a.out, "Created: %s\n", epoch.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(a.out)

	return epoch, nil
}

func approvalMarker(approved bool) string {
	if approved {
		return color.New(color.FgGreen).Sprint("approved")
	}
	return color.New(color.FgYellow).Sprint("draft")
}

func nodeCount(e *primary.Epoch) string {
	if e.MaxNumNodes == 0 {
		return fmt.Sprintf("%d", e.NumNodesClaimed)
	}
	return fmt.Sprintf("%d/%d", e.NumNodesClaimed, e.MaxNumNodes)
}
