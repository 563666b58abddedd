package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/editsession"
)

func addPasswordPromptFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("password-prompt", false, "ask for the password without echo instead of passing --password")
}

// askPassword reads the password at a hidden prompt when --password-prompt is set
func askPassword[T any](a *app) func(cmd *cobra.Command, sess *editsession.Session[T]) error {
	return func(cmd *cobra.Command, sess *editsession.Session[T]) error {
		ask, _ := cmd.Flags().GetBool("password-prompt")
		if !ask {
			return nil
		}
		secret, err := a.prompter.Secret("Password", false)
		if err != nil {
			return err
		}
		return sess.SetField("password", secret)
	}
}
