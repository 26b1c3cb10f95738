package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		email   string
		secret  string
		expires time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a dev-mode HS256 JWT",
		Long:  "Generate an HS256 JWT for development and testing. The auth middleware resolves a numeric sub claim by account id and falls back to the email claim.",
		Example: `  # Token for account id 1, secret from JWT_SECRET or prompted
  groceryctl token --sub 1

  # Token resolved by email, custom expiry
  groceryctl token --email sam@example.com --expires 48h --secret mysecret`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subject == "" && email == "" {
				return fmt.Errorf("one of --sub or --email is required")
			}

			if secret == "" {
				s, err := promptSecret()
				if err != nil {
					return err
				}
				secret = s
			}

			now := time.Now()
			claims := jwt.MapClaims{
				"iss": "groceryctl",
				"iat": now.Unix(),
				"exp": now.Add(expires).Unix(),
			}
			if subject != "" {
				claims["sub"] = subject
			}
			if email != "" {
				claims["email"] = email
			}

			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "Account id for the sub claim")
	cmd.Flags().StringVar(&email, "email", "", "Email claim for account resolution")
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret (falls back to JWT_SECRET, then an interactive prompt)")
	cmd.Flags().DurationVar(&expires, "expires", 24*time.Hour, "Token expiry duration")

	return cmd
}

// promptSecret reads the signing secret without echo. Refuses to run when
// stdin is not a terminal so scripts fail fast instead of hanging.
func promptSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no --secret given, JWT_SECRET unset, and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "JWT secret: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty secret")
	}
	return string(raw), nil
}
