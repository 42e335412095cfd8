package board

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/scribble/pkg/core"
)

// Notifier queues notifications for the board to display.
// Pass it to the service before handing the service to New.
type Notifier struct {
	ch chan core.Notification
}

// NewNotifier creates a Notifier holding up to 16 pending toasts.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan core.Notification, 16)}
}

// Notify implements core.Notifier. Toasts are dropped when the queue is full.
func (n *Notifier) Notify(note core.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

type toastMsg core.Notification

func (n *Notifier) wait() tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		return toastMsg(<-n.ch)
	}
}

var _ core.Notifier = (*Notifier)(nil)
