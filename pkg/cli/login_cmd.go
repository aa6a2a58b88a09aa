package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func newLoginCmd(client *Client, profile *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with name and password, store the session token in the active profile",
		Example: `  # Log in interactively (password prompted, never echoed)
  boardhub login --name alice`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}

			var resp tokenResponse
			if err := client.do("POST", "/v1/auth/login",
				loginRequest{Name: name, Password: password}, &resp); err != nil {
				return err
			}

			if err := saveActiveProfile(*profile, func(p *Profile) {
				p.Host = client.BaseURL
				p.Token = resp.AccessToken
			}); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			client.Token = resp.AccessToken
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (token valid for %ds)\n", name, resp.ExpiresIn)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "User name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// promptPassword reads a password from the terminal with echo disabled.
// Falls back to plain stdin when stdin is not a terminal (piped input).
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var pw string
		if _, err := fmt.Fscanln(os.Stdin, &pw); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return pw, nil
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
