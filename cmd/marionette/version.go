package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	marionette "github.com/algomation/marionette"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of marionette",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marionette version %s\n", strings.TrimSpace(marionette.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
