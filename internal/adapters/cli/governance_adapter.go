// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting, but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/primary"
)

// GovernanceAdapter translates CLI operations to GovernanceService calls.
type GovernanceAdapter struct {
	service primary.GovernanceService
	out     io.Writer
}

// NewGovernanceAdapter creates a new GovernanceAdapter with the given service.
func NewGovernanceAdapter(service primary.GovernanceService, out io.Writer) *GovernanceAdapter {
	return &GovernanceAdapter{
		service: service,
		out:     out,
	}
}

// Initialize creates the governance record for a deployment.
func (a *GovernanceAdapter) Initialize(ctx context.Context, deployment, agent identity.Identity, epochLength uint64) (*primary.Governance, error) {
	gov, err := a.service.Initialize(ctx, primary.InitializeRequest{
		Deployment:  deployment,
		Agent:       agent,
		EpochLength: epochLength,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Initialized deployment %s\n", gov.Deployment)
	fmt.Fprintf(a.out, "  Manager: %s\n", gov.Manager)
	fmt.Fprintf(a.out, "  Agent:   %s\n", gov.Agent)
	return gov, nil
}

// ProposeManager proposes a new manager.
func (a *GovernanceAdapter) ProposeManager(ctx context.Context, deployment, candidate identity.Identity) error {
	err := a.service.ProposeManager(ctx, primary.ProposeManagerRequest{
		Deployment: deployment,
		Candidate:  candidate,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Proposed %s as manager (pending acceptance)\n", candidate)
	return nil
}

// AcceptManager accepts a pending manager proposal.
func (a *GovernanceAdapter) AcceptManager(ctx context.Context, deployment identity.Identity) error {
	if err := a.service.AcceptManager(ctx, deployment); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "✓ Manager role accepted")
	return nil
}

// ChangeAgent replaces the agent.
func (a *GovernanceAdapter) ChangeAgent(ctx context.Context, deployment, agent identity.Identity) error {
	err := a.service.ChangeAgent(ctx, primary.ChangeAgentRequest{
		Deployment: deployment,
		NewAgent:   agent,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Agent changed to %s\n", agent)
	return nil
}

// SetEpochLength updates the advisory epoch length.
func (a *GovernanceAdapter) SetEpochLength(ctx context.Context, deployment identity.Identity, length uint64) error {
	err := a.service.SetEpochLength(ctx, primary.SetEpochLengthRequest{
		Deployment:  deployment,
		EpochLength: length,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Epoch length set to %s\n", formatSeconds(length))
	return nil
}

// Pause pauses the deployment.
func (a *GovernanceAdapter) Pause(ctx context.Context, deployment identity.Identity) error {
	if err := a.service.Pause(ctx, deployment); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Deployment %s\n", color.New(color.FgRed).Sprint("paused"))
	return nil
}

// Unpause resumes the deployment.
func (a *GovernanceAdapter) Unpause(ctx context.Context, deployment identity.Identity) error {
	if err := a.service.Unpause(ctx, deployment); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Deployment %s\n", color.New(color.FgGreen).Sprint("unpaused"))
	return nil
}

// Show displays the governance record.
func (a *GovernanceAdapter) Show(ctx context.Context, deployment identity.Identity) (*primary.Governance, error) {
	gov, err := a.service.GetGovernance(ctx, deployment)
	if err != nil {
		return nil, fmt.Errorf("failed to get governance: %w", err)
	}

	fmt.Fprintf(a.out, "\nDeployment: %s\n", gov.Deployment)
	fmt.Fprintf(a.out, "Status:     %s\n", pausedMarker(gov.IsPaused))
	fmt.Fprintf(a.out, "Manager:    %s\n", gov.Manager)
	if !gov.ProposedManager.IsZero() {
		fmt.Fprintf(a.out, "Proposed:   %s\n", gov.ProposedManager)
	}
	fmt.Fprintf(a.out, "Agent:      %s\n", gov.Agent)
	fmt.Fprintf(a.out, "Epoch:      %d (approved %d)\n", gov.CurrentEpochNr, gov.CurrentApprovedEpoch)
	if gov.EpochLength > 0 {
		fmt.Fprintf(a.out, "Length:     %s\n", formatSeconds(gov.EpochLength))
	}
	fmt.Fprintf(a.out, "Created:    %s\n", gov.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(a.out)

	return gov, nil
}

func pausedMarker(paused bool) string {
	if paused {
		return color.New(color.FgRed).Sprint("PAUSED")
	}
	return color.New(color.FgGreen).Sprint("active")
}

// formatSeconds renders an advisory epoch length.
func formatSeconds(s uint64) string {
	if s > uint64(1<<62)/uint64(time.Second) {
		return fmt.Sprintf("%ds", s)
	}
	return (time.Duration(s) * time.Second).String()
}
