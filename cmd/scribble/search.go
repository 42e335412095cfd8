package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "List notes containing the query, ignoring case",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService()
		if err != nil {
			fatal("Failed to initialize scribble", err)
		}
		defer svc.Close()

		printNotes(os.Stdout, svc.Search(strings.Join(args, " ")))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
