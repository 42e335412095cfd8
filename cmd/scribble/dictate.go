package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/scribble"
)

var dictateSave bool

var dictateCmd = &cobra.Command{
	Use:   "dictate",
	Short: "Dictate a note until Enter or Ctrl+C",
	Long: `Dictate runs the configured recognizer (dictation.command) and shows the
transcript as it grows. Press Enter or Ctrl+C to stop. The final text is printed,
and saved as a note with --save.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := openService(scribble.WithDraftObserver(func(draft string) {
			fmt.Fprintf(os.Stderr, "\r\033[K%s", draft)
		}))
		if err != nil {
			fatal("Failed to initialize scribble", err)
		}
		defer svc.Close()

		if err := svc.StartDictation(); err != nil {
			fatal("Failed to start dictation", err)
		}
		fmt.Fprintln(os.Stderr, "listening... press Enter to stop")

		go func() {
			_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
			stop()
		}()
		<-ctx.Done()

		draft := svc.StopDictation()
		fmt.Fprintln(os.Stderr)
		fmt.Println(draft)

		if !dictateSave {
			return
		}
		if _, err := svc.SaveDraft(context.Background()); err != nil {
			fatal("Failed to save note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(dictateCmd)
	dictateCmd.Flags().BoolVar(&dictateSave, "save", false, "Save the dictated text as a note")
}
