package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [text...]",
	Short: "Save a typed note",
	Long:  `Save the arguments as a new note. Without arguments the note is read from stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		content := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			content = string(data)
		}

		svc, err := openService()
		if err != nil {
			fatal("Failed to initialize scribble", err)
		}
		defer svc.Close()

		note, err := svc.CreateNote(context.Background(), content)
		if err != nil {
			fatal("Failed to save note", err)
		}
		fmt.Println(note.ID)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
