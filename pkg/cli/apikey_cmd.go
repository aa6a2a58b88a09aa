package cli

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

type createAPIKeyRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type apiKeyMeta struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	KeyPrefix string     `json:"key_prefix"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

type createAPIKeyResponse struct {
	Key     string     `json:"key"`
	Details apiKeyMeta `json:"details"`
}

type paginatedAPIKeys struct {
	Data          []apiKeyMeta `json:"data"`
	NextPageToken *string      `json:"next_page_token,omitempty"`
}

func newAPIKeyCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
	}
	cmd.AddCommand(newAPIKeyCreateCmd(client))
	cmd.AddCommand(newAPIKeyListCmd(client))
	cmd.AddCommand(newAPIKeyRevokeCmd(client))
	return cmd
}

func newAPIKeyCreateCmd(client *Client) *cobra.Command {
	var (
		name      string
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new API key (the secret is shown once, store it now)",
		Example: `  # Create a key for CI that expires in 90 days
  boardhub apikey create --name ci-bot --expires-in 2160h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := createAPIKeyRequest{Name: name}
			if expiresIn > 0 {
				t := time.Now().Add(expiresIn).UTC()
				req.ExpiresAt = &t
			}
			var resp createAPIKeyResponse
			if err := client.do("POST", "/v1/api-keys", req, &resp); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key:    %s\n", resp.Key)
			fmt.Fprintf(out, "ID:     %s\n", resp.Details.ID)
			fmt.Fprintf(out, "Prefix: %s\n", resp.Details.KeyPrefix)
			fmt.Fprintln(out, "This is the only time the key is shown. Store it securely.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Key name")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "Optional lifetime (e.g. 720h); omit for no expiry")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAPIKeyListCmd(client *Client) *cobra.Command {
	var pageToken string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your API keys (metadata only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := "/v1/api-keys"
			if pageToken != "" {
				path += "?page_token=" + url.QueryEscape(pageToken)
			}
			var resp paginatedAPIKeys
			if err := client.do("GET", path, nil, &resp); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range resp.Data {
				status := "active"
				switch {
				case k.RevokedAt != nil:
					status = "revoked"
				case k.ExpiresAt != nil && !time.Now().Before(*k.ExpiresAt):
					status = "expired"
				}
				fmt.Fprintf(out, "%s  %s...  %-8s  %s\n", k.ID, k.KeyPrefix, status, k.Name)
			}
			if resp.NextPageToken != nil {
				fmt.Fprintf(out, "next page: --page-token %s\n", *resp.NextPageToken)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pageToken, "page-token", "", "Page token from a previous list call")
	return cmd
}

func newAPIKeyRevokeCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Permanently revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.do("DELETE", "/v1/api-keys/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revoked %s\n", args[0])
			return nil
		},
	}
}
