package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/scribble"
	"github.com/aretw0/scribble/internal/board"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive note board",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Log lines would tear the alternate screen.
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		if verbose {
			logger = slog.Default()
		}

		notifier := board.NewNotifier()
		svc, err := openService(scribble.WithNotifier(notifier), scribble.WithLogger(logger))
		if err != nil {
			fatal("Failed to initialize scribble", err)
		}
		defer svc.Close()

		if err := board.Run(ctx, svc, notifier); err != nil {
			fatal("Board failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
