package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mediashelf",
		Short:         "Track movies, series, books and games with your network",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config-dir", "", "directory holding the database and translations (CONFIG_DIR)")
	flags.String("log-level", "", "log level: debug, info, warn, error (LOG_LEVEL)")
	flags.String("port", "", "HTTP port (SERVER_PORT)")
	viper.BindPFlag("CONFIG_DIR", flags.Lookup("config-dir"))
	viper.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	viper.BindPFlag("SERVER_PORT", flags.Lookup("port"))

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run()
			},
		},
		newMigrateCmd(),
		newUserCmd(),
		newTokenCmd(),
		newGenresCmd(),
	)
	return root
}
