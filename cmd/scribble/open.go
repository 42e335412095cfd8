package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/scribble"
	"github.com/aretw0/scribble/internal/board"
	"github.com/aretw0/scribble/pkg/adapters/dictation"
	"github.com/aretw0/scribble/pkg/core"
)

// openService builds the service from the merged configuration.
// Later options override the defaults.
func openService(opts ...scribble.Option) (*core.Service, error) {
	base := []scribble.Option{
		scribble.WithAdapter(cfg.Storage.Adapter),
		scribble.WithSlot(cfg.Storage.Slot),
		scribble.WithLanguage(cfg.Dictation.Language),
		scribble.WithLogger(slog.Default()),
		scribble.WithNotifier(toastNotifier{out: os.Stderr}),
	}
	if argv := dictation.ParseCommandLine(cfg.Dictation.Command); len(argv) > 0 {
		base = append(base, scribble.WithDictationCommand(argv))
	}

	svc, err := scribble.New(cfg.Storage.Path, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes at %s: %w", cfg.Storage.Path, err)
	}
	return svc, nil
}

// toastNotifier prints notifications as one styled line.
type toastNotifier struct {
	out io.Writer
}

func (t toastNotifier) Notify(n core.Notification) {
	fmt.Fprintln(t.out, board.RenderToast(string(n.Level), n.Message))
}

func printNotes(w io.Writer, notes []core.Note) {
	for _, n := range notes {
		fmt.Fprintf(w, "%s  %s  %s\n", n.ID, n.Date.Local().Format(time.DateTime), n.Content)
	}
}
