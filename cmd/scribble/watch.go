package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/scribble/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes other processes make to the notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := openService()
		if err != nil {
			fatal("Failed to initialize scribble", err)
		}
		defer svc.Close()

		events, err := svc.Watch(ctx)
		if err != nil {
			fatal("Failed to watch notes", err)
		}

		src := lifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		fmt.Fprintf(os.Stderr, "watching %s (%d notes)\n", svc.Store().Slot(), svc.Store().Len())
		for e := range src.Events() {
			fmt.Printf("%s: %d notes\n", e, svc.Store().Len())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
