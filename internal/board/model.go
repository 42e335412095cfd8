// Package board is the interactive terminal UI: a search box, the note list
// and a draft that can be typed or dictated.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/scribble/pkg/core"
)

type focus int

const (
	focusList focus = iota
	focusSearch
	focusDraft
)

const (
	draftPollInterval = 150 * time.Millisecond
	toastTTL          = 3 * time.Second
)

type (
	draftTickMsg  struct{}
	notesMsg      struct{}
	toastClearMsg struct{ seq int }
	watchMsg      struct{ events <-chan core.Event }
)

// Model is the bubbletea model of the board.
type Model struct {
	ctx      context.Context
	svc      *core.Service
	notifier *Notifier
	events   <-chan core.Event

	visible []core.Note
	cursor  int
	offset  int
	width   int
	height  int
	focus   focus

	search textinput.Model
	draft  textarea.Model

	toast    string
	toastSeq int
}

// New creates a board over svc. notifier may be nil.
func New(ctx context.Context, svc *core.Service, notifier *Notifier) Model {
	si := textinput.New()
	si.Placeholder = "search..."
	si.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "write or dictate a note"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetValue(svc.Capture().Draft())

	m := Model{
		ctx:      ctx,
		svc:      svc,
		notifier: notifier,
		search:   si,
		draft:    ta,
		width:    80,
		height:   24,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.notifier.wait(), m.startWatch())
}

// startWatch follows external changes of the slot when the storage supports it.
func (m Model) startWatch() tea.Cmd {
	return func() tea.Msg {
		events, err := m.svc.Watch(m.ctx)
		if err != nil {
			return nil
		}
		return watchMsg{events: events}
	}
}

func waitEvent(events <-chan core.Event) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return notesMsg{}
	}
}

func pollDraft() tea.Cmd {
	return tea.Tick(draftPollInterval, func(time.Time) tea.Msg { return draftTickMsg{} })
}

// refresh recomputes the visible notes from the search box.
func (m *Model) refresh() {
	m.visible = m.svc.Search(m.search.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
	m.clampOffset()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.draft.SetWidth(max(20, msg.Width-4))
		m.clampOffset()
		return m, nil

	case watchMsg:
		m.events = msg.events
		return m, waitEvent(m.events)

	case notesMsg:
		m.refresh()
		return m, waitEvent(m.events)

	case draftTickMsg:
		if m.svc.Capture().Status() != core.StatusRecording {
			return m, nil
		}
		if d := m.svc.Capture().Draft(); d != m.draft.Value() {
			m.draft.SetValue(d)
		}
		return m, pollDraft()

	case toastMsg:
		m.toastSeq++
		m.toast = RenderToast(string(msg.Level), msg.Message)
		seq := m.toastSeq
		return m, tea.Batch(
			m.notifier.wait(),
			tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastClearMsg{seq: seq} }),
		)

	case toastClearMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.svc.StopDictation()
			return m, tea.Quit
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusDraft:
			return m.updateDraft(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.svc.StopDictation()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.clampOffset()
		}

	case "/":
		m.focus = focusSearch
		return m, m.search.Focus()

	case "n", "tab":
		m.focus = focusDraft
		return m, m.draft.Focus()

	case "d", "delete":
		if len(m.visible) == 0 {
			return m, nil
		}
		id := m.visible[m.cursor].ID
		if _, err := m.svc.DeleteNote(m.ctx, id); err != nil {
			m.toast = RenderToast(string(core.LevelWarning), err.Error())
		}
		m.refresh()

	case "r":
		return m.toggleDictation()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.search.Blur()
		m.focus = focusList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) updateDraft(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.draft.Blur()
		m.focus = focusList
		return m, nil

	case "ctrl+r":
		return m.toggleDictation()

	case "ctrl+s":
		return m.saveDraft()
	}

	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	if m.svc.Capture().Status() != core.StatusRecording {
		m.svc.Capture().SetDraft(m.draft.Value())
	}
	return m, cmd
}

func (m Model) toggleDictation() (tea.Model, tea.Cmd) {
	capture := m.svc.Capture()
	if capture.Status() == core.StatusRecording {
		m.draft.SetValue(m.svc.StopDictation())
		return m, nil
	}
	if err := m.svc.StartDictation(); err != nil {
		if !errors.Is(err, core.ErrCaptureUnavailable) || m.notifier == nil {
			m.toast = RenderToast(string(core.LevelWarning), err.Error())
		}
		return m, nil
	}
	m.draft.SetValue("")
	return m, pollDraft()
}

func (m Model) saveDraft() (tea.Model, tea.Cmd) {
	if m.svc.Capture().Status() != core.StatusRecording {
		m.svc.Capture().SetDraft(m.draft.Value())
	}
	_, err := m.svc.SaveDraft(m.ctx)
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		m.toast = RenderToast(string(core.LevelWarning), "nothing to save")
	case err != nil:
		m.toast = RenderToast(string(core.LevelWarning), err.Error())
	default:
		m.draft.Reset()
		m.refresh()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("scribble") +
		dimStyle.Render(fmt.Sprintf("  %d of %d notes", len(m.visible), m.svc.Store().Len()))
	if m.svc.Capture().Status() == core.StatusRecording {
		header += "  " + recordingStyle.Render("● recording")
	}
	b.WriteString(header + "\n")
	b.WriteString(statusBarStyle.Render("Search:") + " " + m.search.View() + "\n")

	visible := m.visibleRows()
	end := min(m.offset+visible, len(m.visible))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.visible[i], i == m.cursor) + "\n")
	}
	for i := end - m.offset; i < visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.draft.View() + "\n")
	if m.toast != "" {
		b.WriteString(m.toast + "\n")
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderRow(n core.Note, selected bool) string {
	date := n.Date.Local().Format("02/01 15:04")
	content := strings.Join(strings.Fields(n.Content), " ")
	room := max(10, m.width-len(date)-6)
	if r := []rune(content); len(r) > room {
		content = string(r[:room-2]) + ".."
	}

	if selected && m.focus == focusList {
		row := selectedStyle.Render(date + "  " + content)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, row)
	}
	return normalStyle.Render(dateStyle.Render(date) + "  " + content)
}

func (m Model) renderHelp() string {
	switch m.focus {
	case focusSearch:
		return helpStyle.Render("  type to filter  Enter/Esc: back")
	case focusDraft:
		return helpStyle.Render("  Ctrl+S: save  Ctrl+R: dictate  Esc: back")
	default:
		return helpStyle.Render("  /: search  n: new  r: dictate  d: delete  q: quit")
	}
}

func (m Model) visibleRows() int {
	// title, search, draft (3 + border), toast, help
	rows := m.height - 10
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Run starts the board on the terminal and blocks until the user quits.
func Run(ctx context.Context, svc *core.Service, notifier *Notifier) error {
	p := tea.NewProgram(New(ctx, svc, notifier), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
