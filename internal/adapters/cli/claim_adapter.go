package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/primary"
)

// ClaimAdapter translates CLI operations to ClaimService calls.
type ClaimAdapter struct {
	service primary.ClaimService
	out     io.Writer
}

// NewClaimAdapter creates a new ClaimAdapter with the given service.
func NewClaimAdapter(service primary.ClaimService, out io.Writer) *ClaimAdapter {
	return &ClaimAdapter{
		service: service,
		out:     out,
	}
}

// Claim submits a claim for the caller.
func (a *ClaimAdapter) Claim(ctx context.Context, req primary.ClaimRequest) error {
	resp, err := a.service.Claim(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Claimed %d from epoch %d (leaf %d) into %s\n",
		resp.Claim.Amount, resp.Claim.EpochNr, resp.Claim.LeafIndex, resp.Destination)
	return nil
}

// Status reports whether an entitlement has been claimed.
func (a *ClaimAdapter) Status(ctx context.Context, req primary.ClaimStatusRequest) (*primary.ClaimStatus, error) {
	status, err := a.service.GetClaimStatus(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim status: %w", err)
	}

	if !status.Claimed {
		fmt.Fprintf(a.out, "Leaf %d of epoch %d: %s\n", req.LeafIndex, req.EpochNr, color.New(color.FgYellow).Sprint("unclaimed"))
		return status, nil
	}
	c := status.Claim
	fmt.Fprintf(a.out, "Leaf %d of epoch %d: %s\n", c.LeafIndex, c.EpochNr, color.New(color.FgGreen).Sprint("claimed"))
	fmt.Fprintf(a.out, "  Receiver: %s\n", c.Receiver)
	fmt.Fprintf(a.out, "  Amount:   %d\n", c.Amount)
	fmt.Fprintf(a.out, "  At:       %s\n", c.ClaimedAt.Format("2006-01-02 15:04"))
	return status, nil
}

// List lists the claims of one epoch.
func (a *ClaimAdapter) List(ctx context.Context, deployment identity.Identity, epochNr uint64) error {
	claims, err := a.service.ListClaims(ctx, deployment, epochNr)
	if err != nil {
		return fmt.Errorf("failed to list claims: %w", err)
	}

	if len(claims) == 0 {
		fmt.Fprintln(a.out, "No claims found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEAF\tAMOUNT\tRECEIVER\tCLAIMED")
	for _, c := range claims {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", c.LeafIndex, c.Amount, c.Receiver, c.ClaimedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
