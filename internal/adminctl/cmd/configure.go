package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/shared/config"
)

func newConfigureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Configure the backend connection",
		Long: `Configure the backend connection interactively or via command line flags.

You are prompted for the backend URL, the API token and the page size unless
both --url and --token are given. The settings are saved to
~/.homeservices-admin/config.yaml by default, or to the file named by --config.

Example:
  adminctl configure
  adminctl configure --url https://api.example.com --token eyJhbGciOi...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			var req *config.ConfigureRequest
			if flags.Changed("url") && flags.Changed("token") {
				req = &config.ConfigureRequest{
					URL:      a.settings.URL,
					Token:    a.settings.Token,
					PageSize: a.settings.PageSize,
				}
			} else {
				var err error
				req, err = config.ConfigureInteractive(a.prompter, a.settings)
				if err != nil {
					return err
				}
			}

			path, err := a.cfg.Save(*req, "")
			if err != nil {
				return err
			}

			a.printer.Success("Configuration saved to " + path)
			a.printer.Fields([][2]string{
				{"URL", req.URL},
				{"Token", config.MaskToken(req.Token)},
				{"Page size", strconv.Itoa(req.PageSize)},
			})
			return nil
		},
	}
}
