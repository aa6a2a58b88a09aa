// Package cli implements the boardhub command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host    string
		apiKey  string
		token   string
		profile string
	)

	client := NewClient("http://localhost:8080", "", "")

	rootCmd := &cobra.Command{
		Use:           "boardhub",
		Short:         "BoardHub auth service CLI",
		Long:          "Command-line interface for the BoardHub authentication and authorization API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load config from profile if flags/env not set
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}

			p := cfg.ActiveProfile(profile)

			// Apply precedence: flag > env > profile > default
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("BOARDHUB_HOST"); v != "" {
					host = v
				} else if p.Host != "" {
					host = p.Host
				}
			}
			if !cmd.Flags().Changed("api-key") {
				if v := os.Getenv("BOARDHUB_API_KEY"); v != "" {
					apiKey = v
				} else if p.APIKey != "" {
					apiKey = p.APIKey
				}
			}
			if !cmd.Flags().Changed("token") {
				if v := os.Getenv("BOARDHUB_TOKEN"); v != "" {
					token = v
				} else if p.Token != "" {
					token = p.Token
				}
			}

			client.BaseURL = host
			client.APIKey = apiKey
			client.Token = token
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "API host URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Session token for authentication")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")

	rootCmd.AddCommand(newLoginCmd(client, &profile))
	rootCmd.AddCommand(newWhoamiCmd(client))
	rootCmd.AddCommand(newAPIKeyCmd(client))
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
