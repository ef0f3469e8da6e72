package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/creerlio/talentbank/internal/middleware"
	"github.com/spf13/cobra"
)

func TokenCmd() *cobra.Command {
	var audience string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a development bearer token signed with $JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			if audience == "" {
				audience = envOr("JWT_AUDIENCE", "authenticated")
			}

			token, err := middleware.NewToken(secret, audience, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&audience, "audience", "", "aud claim (default $JWT_AUDIENCE, then authenticated)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
