package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		svc, err := openService()
		if err != nil {
			fatal("Failed to initialize scribble", err)
		}
		defer svc.Close()

		before := svc.Store().Len()
		remaining, err := svc.DeleteNote(context.Background(), id)
		if err != nil {
			fatal("Failed to delete note", err)
		}
		if len(remaining) == before {
			fmt.Printf("No note with id %s\n", id)
			return
		}
		fmt.Printf("Note deleted: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
