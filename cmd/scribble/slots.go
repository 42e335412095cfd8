package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var slotsCmd = &cobra.Command{
	Use:   "slots [pattern]",
	Short: "List the keys held by the storage",
	Long:  `List the storage keys matching a glob pattern ("**" by default), e.g. "note@*".`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := "**"
		if len(args) == 1 {
			pattern = args[0]
		}

		svc, err := openService()
		if err != nil {
			fatal("Failed to initialize scribble", err)
		}
		defer svc.Close()

		keys, err := svc.Slots(context.Background(), pattern)
		if err != nil {
			fatal("Failed to list slots", err)
		}
		for _, k := range keys {
			marker := " "
			if k == svc.Store().Slot() {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, k)
		}
	},
}

func init() {
	rootCmd.AddCommand(slotsCmd)
}
