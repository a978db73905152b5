package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newLineCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "line",
		Short: "Manage registered phone lines",
	}

	cmd.AddCommand(
		newLineAddCmd(app),
		newLineListCmd(app),
		newLineRemoveCmd(app),
	)

	return cmd
}

func newLineAddCmd(app *app) *cobra.Command {
	var number string
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a line or rename it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phone, err := domain.NormalizePhoneNumber(number)
			if err != nil {
				return err
			}

			line, err := app.service.AddLine(cmd.Context(), phone, name)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", line.Number, line.DisplayName())
			return err
		},
	}

	cmd.Flags().StringVarP(&number, "number", "n", "", "Phone number")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}

func newLineListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lines, err := app.service.ListLines(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, line := range lines {
				password := "none"
				if line.Auth.SecretRef != "" {
					password = "stored"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\tpassword: %s\n", line.Number, line.DisplayName(), password)
			}

			return tw.Flush()
		},
	}
}

func newLineRemoveCmd(app *app) *cobra.Command {
	var number string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Forget a line and its stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phone, err := domain.NormalizePhoneNumber(number)
			if err != nil {
				return err
			}

			return app.service.RemoveLine(cmd.Context(), phone)
		},
	}

	cmd.Flags().StringVarP(&number, "number", "n", "", "Phone number")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}
