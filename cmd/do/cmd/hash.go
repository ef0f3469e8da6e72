package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creerlio/talentbank/internal/hashing"
	"github.com/spf13/cobra"
)

func HashCmd() *cobra.Command {
	var expected string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "hash <file|url>...",
		Short: "Print the SHA-256 digest of files or remote URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher := hashing.NewHasher(nil, timeout)

			for _, arg := range args {
				digest, err := digestOf(cmd, hasher, arg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", digest, arg)

				if expected != "" && !hashing.Equal(digest, hashing.Digest(expected)) {
					return fmt.Errorf("digest mismatch for %s: expected %s", arg, strings.ToLower(expected))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&expected, "verify", "", "fail unless every digest equals this one")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "timeout for remote fetches")

	return cmd
}

func digestOf(cmd *cobra.Command, hasher *hashing.Hasher, arg string) (hashing.Digest, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return hasher.FromRemote(cmd.Context(), arg)
	}

	f, err := os.Open(arg)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	digest, _, err := hashing.SumReader(f)
	return digest, err
}
