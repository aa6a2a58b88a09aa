package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type meResponse struct {
	User           userResponse `json:"user"`
	CredentialKind string       `json:"credential_kind"`
	APIKeyID       *string      `json:"api_key_id,omitempty"`
}

func newWhoamiCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated principal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp meResponse
			if err := client.do("GET", "/v1/users/me", nil, &resp); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", resp.User.Name)
			fmt.Fprintf(out, "ID:         %s\n", resp.User.ID)
			fmt.Fprintf(out, "Admin:      %v\n", resp.User.IsAdmin)
			fmt.Fprintf(out, "Credential: %s\n", resp.CredentialKind)
			if resp.APIKeyID != nil {
				fmt.Fprintf(out, "API key:    %s\n", *resp.APIKeyID)
			}
			return nil
		},
	}
}
