package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/scribble"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scribble",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scribble version %s\n", strings.TrimSpace(scribble.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
