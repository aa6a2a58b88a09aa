package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication helpers",
	}

	cmd.AddCommand(newAuthTokenCmd())
	return cmd
}

func newAuthTokenCmd() *cobra.Command {
	var (
		subject string
		secret  string
		expires time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a dev-mode session token and save it to the active profile",
		Long:  "Generate an HS256 session token for development and testing. The subject must be an existing user ID. The token is saved to the active profile automatically.",
		Example: `  # Generate a token for a user with the default dev secret
  boardhub auth token --subject 0190a7ee-... --secret dev-secret-change-in-production

  # Generate a token with custom expiry
  boardhub auth token --subject 0190a7ee-... --secret mysecret --expires 48h`,
		RunE: func(_ *cobra.Command, _ []string) error {
			now := time.Now()
			claims := jwt.MapClaims{
				"sub": subject,
				"iat": now.Unix(),
				"exp": now.Add(expires).Unix(),
			}

			token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
			signed, err := token.SignedString([]byte(secret))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			if err := saveActiveProfile("", func(p *Profile) {
				p.Token = signed
			}); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			_, _ = fmt.Fprintln(os.Stdout, signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "User ID (JWT sub claim)")
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret (HS256)")
	cmd.Flags().DurationVar(&expires, "expires", 24*time.Hour, "Token expiry duration")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}
