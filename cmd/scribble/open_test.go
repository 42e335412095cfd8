package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/scribble/pkg/core"
)

func TestPrintNotes(t *testing.T) {
	var buf bytes.Buffer
	printNotes(&buf, []core.Note{
		{ID: "b", Date: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Content: "second"},
		{ID: "a", Date: time.Date(2024, 1, 1, 3, 4, 5, 0, time.UTC), Content: "first"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "b  "))
	assert.True(t, strings.HasSuffix(lines[1], "  first"))
}

func TestToastNotifier(t *testing.T) {
	var buf bytes.Buffer
	toastNotifier{out: &buf}.Notify(core.Notification{Level: core.LevelWarning, Message: "dictation is not available"})
	assert.Contains(t, buf.String(), "dictation is not available")
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"new", "list", "search", "delete", "dictate", "watch", "slots", "board", "config", "status", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}
