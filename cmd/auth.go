package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored line passwords",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var number string
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the portal password of a line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phone, err := domain.NormalizePhoneNumber(number)
			if err != nil {
				return err
			}

			if passwordStdin {
				if password != "" {
					return errors.New("--password and --password-stdin are mutually exclusive")
				}
				password, err = readPasswordLine(cmd)
				if err != nil {
					return err
				}
			}
			if password == "" {
				return errors.New("password is required: pass --password or --password-stdin")
			}

			return app.service.SetPassword(cmd.Context(), phone, password)
		},
	}

	cmd.Flags().StringVarP(&number, "number", "n", "", "Phone number")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Portal password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	var number string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Forget the stored password of a line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phone, err := domain.NormalizePhoneNumber(number)
			if err != nil {
				return err
			}

			return app.service.RemovePassword(cmd.Context(), phone)
		},
	}

	cmd.Flags().StringVarP(&number, "number", "n", "", "Phone number")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}

func readPasswordLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
