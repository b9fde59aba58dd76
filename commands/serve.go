package commands

import (
	"github.com/spf13/cobra"

	"github.com/staffreview/staffreview-sheets/httpd"
)

// Serve returns the 'serve' command, which runs the web form until interrupted.
func Serve(options *Options) *cobra.Command {
	bind := ""

	cmd := cobra.Command{
		Use:   "serve",
		Short: "Serves the staff performance review form",
		Long: `Runs a local web server with the multi-step staff performance review form. Submitted
  reviews are appended to the configured worksheet. Sign-in is prompted for on the first
  submission if no credential is configured.`,
		Example: `  staffreview-sheets serve --bind 127.0.0.1:8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := setup(ctx, options)
			if err != nil {
				return err
			}

			defer env.Close()

			if bind == "" {
				bind = env.config.HTTP.Bind
			}

			return httpd.NewServer(env.manager, env.forms, env.gateway).Run(ctx, bind)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", bind, "HTTP bind address (default: http.bind from the configuration)")

	return &cmd
}
