package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/wire"
)

// EventsCmd returns the events command
func EventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Read and acknowledge the notification outbox",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			deployment, err := resolveDeployment(cmd)
			if err != nil {
				return err
			}
			eventType, _ := cmd.Flags().GetString("type")
			pending, _ := cmd.Flags().GetBool("pending")
			limit, _ := cmd.Flags().GetInt("limit")

			return wire.EventAdapter().List(cmd.Context(), primary.EventFilters{
				Deployment:  deployment,
				EventType:   eventType,
				PendingOnly: pending,
				Limit:       limit,
			})
		},
	}
	listCmd.Flags().String("type", "", "Only this event type (e.g. claimed)")
	listCmd.Flags().Bool("pending", false, "Only unacknowledged notifications")
	listCmd.Flags().Int("limit", 0, "Maximum number of notifications")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "ack <event-id>",
		Short: "Mark a notification as published",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.EventAdapter().Ack(cmd.Context(), args[0])
		},
	})

	return cmd
}
