package commands

import (
	"github.com/spf13/cobra"
)

// Authorise returns the 'authorise' command, which runs the interactive sign-in and
// optionally prints the refresh token for use as 'oauth.refresh-token' in the config file.
func Authorise(options *Options) *cobra.Command {
	printToken := false

	cmd := cobra.Command{
		Use:   "authorise",
		Short: "Authorises " + APP + " to access the configured Google Sheets spreadsheet",
		Long: `Opens the Google sign-in page in your browser and waits for access to be granted.

  The acquired credential is held for the duration of the command only. Use --print-token
  to display the refresh token so that it can be added to the configuration file (or the
  STAFFREVIEW_REFRESH_TOKEN environment variable) for unattended use.`,
		Example: `  staffreview-sheets authorise
  staffreview-sheets --config staffreview.toml authorise --print-token`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := setup(ctx, options)
			if err != nil {
				return err
			}

			defer env.Close()

			if d := env.google.Discovery(); d != nil {
				debugf("API %v %v at %v", d.Name, d.Version, d.RootURL)
			}

			if err := env.manager.SignIn(ctx); err != nil {
				return err
			}

			infof("authorised access to spreadsheet %v", env.config.Spreadsheet)

			if printToken {
				token, err := env.manager.Token()
				if err != nil {
					return err
				}

				if token.RefreshToken == "" {
					warnf("no refresh token issued - revoke access at https://myaccount.google.com/permissions and authorise again")
				} else {
					cmd.Printf("%v\n", token.RefreshToken)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&printToken, "print-token", printToken, "Prints the refresh token for use in the configuration file")

	return &cmd
}
