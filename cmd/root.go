package cmd

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configPath string
	var logLevel string

	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "fido",
		Short:         "Fido usage CLI: fetch data, talk and text usage of a Fido line",
		Long:          "fido signs in to the Fido self-serve portal, fetches the usage, balance and Fido dollars of a line and prints them as JSON, InfluxDB line protocol or a terminal summary.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			wired, err := wireApp(wireOptions{
				ConfigPath: configPath,
				LogLevel:   logLevel,
				LogOutput:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			*app = *wired
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/fido/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLineCmd(app),
		newAuthCmd(app),
		newUsageCmd(app),
	)

	return rootCmd
}
