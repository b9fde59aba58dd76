package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/staffreview/staffreview-sheets/config"
)

// Revoke returns the 'revoke' command, which revokes the configured refresh token.
func Revoke(options *Options) *cobra.Command {
	cmd := cobra.Command{
		Use:     "revoke",
		Short:   "Revokes the configured credential",
		Long:    "Signs out, revoking the configured refresh token with Google. Remove the token from the configuration file afterwards.",
		Example: `  staffreview-sheets revoke`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := setup(ctx, options)
			if err != nil {
				return err
			}

			defer env.Close()

			if !env.manager.Authenticated() {
				return fmt.Errorf("no credential configured (oauth.refresh-token or %v)", config.ENV_REFRESH_TOKEN)
			}

			env.manager.SignOut(ctx)

			return nil
		},
	}

	return &cmd
}
