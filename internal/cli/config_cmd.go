package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/rewards/internal/config"
	"github.com/example/rewards/internal/wire"
)

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit .rewards/config.json",
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd("set-identity", "identity", "Set the identity commands act as", func(c *config.Config, v string) { c.Identity = v }))
	cmd.AddCommand(configSetCmd("set-deployment", "deployment", "Set the default deployment", func(c *config.Config, v string) { c.Deployment = v }))
	cmd.AddCommand(configNewIdentityCmd())

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (file plus environment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(wire.Config(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func configSetCmd(use, name, short string, set func(*config.Config, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <" + name + ">",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseIdentityArg(name, args[0]); err != nil {
				return err
			}

			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfig(dir)
			if err != nil {
				cfg = &config.Config{}
			}
			set(cfg, args[0])
			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}

			fmt.Printf("✓ %s set to %s\n", name, args[0])
			return nil
		},
	}
}

func configNewIdentityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new-identity",
		Short: "Print a fresh random identity",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(newIdentity())
		},
	}
}
