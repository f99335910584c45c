package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vetbotio/vetbot/internal/version"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "vetbot",
		Short: "Slack bridge for NowSecure app vetting",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the ops HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.toml")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetInfo())
		},
	}

	root.AddCommand(serveCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
