package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/rewards/internal/wire"
)

// ManagerCmd returns the manager command
func ManagerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manager",
		Short: "Two-phase manager handover",
		Long: `The current manager proposes a successor, who must accept before the
role moves. A new proposal replaces a pending one.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "propose <identity>",
		Short: "Propose a new manager (manager only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate, err := parseIdentityArg("candidate", args[0])
			if err != nil {
				return err
			}
			return withDeployment(cmd, func(cc commandContext) error {
				return wire.GovernanceAdapter().ProposeManager(cc.ctx, cc.deployment, candidate)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "accept",
		Short: "Accept a pending manager proposal (proposed manager only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeployment(cmd, func(cc commandContext) error {
				return wire.GovernanceAdapter().AcceptManager(cc.ctx, cc.deployment)
			})
		},
	})

	return cmd
}

// AgentCmd returns the agent command
func AgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage the agent that publishes epochs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "change <identity>",
		Short: "Replace the agent (manager only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := parseIdentityArg("agent", args[0])
			if err != nil {
				return err
			}
			return withDeployment(cmd, func(cc commandContext) error {
				return wire.GovernanceAdapter().ChangeAgent(cc.ctx, cc.deployment, agent)
			})
		},
	})

	return cmd
}

// EpochLengthCmd returns the epoch-length command
func EpochLengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "epoch-length <seconds>",
		Short: "Set the advisory epoch length (manager only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			length, err := parseUintArg("epoch length", args[0])
			if err != nil {
				return err
			}
			return withDeployment(cmd, func(cc commandContext) error {
				return wire.GovernanceAdapter().SetEpochLength(cc.ctx, cc.deployment, length)
			})
		},
	}
}

// PauseCmd returns the pause command
func PauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Stop all mutating operations (manager only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeployment(cmd, func(cc commandContext) error {
				return wire.GovernanceAdapter().Pause(cc.ctx, cc.deployment)
			})
		},
	}
}

// UnpauseCmd returns the unpause command
func UnpauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpause",
		Short: "Resume operations (manager only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeployment(cmd, func(cc commandContext) error {
				return wire.GovernanceAdapter().Unpause(cc.ctx, cc.deployment)
			})
		},
	}
}

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the governance record of the deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			deployment, err := resolveDeployment(cmd)
			if err != nil {
				return err
			}
			_, err = wire.GovernanceAdapter().Show(cmd.Context(), deployment)
			return err
		},
	}
}
