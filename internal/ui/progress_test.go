package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"astdump/internal/driver"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	files := []string{"a.bin", "b.bin", "a.bin"}
	model := NewProgressModel("checking", files, nil).(*progressModel)

	events := []driver.Event{
		{File: "a.bin", Stage: driver.StageDecode, Status: driver.StatusWorking},
		{File: "b.bin", Stage: driver.StageDecode, Status: driver.StatusWorking},
		{File: "a.bin", Stage: driver.StageDecode, Status: driver.StatusDone, Elapsed: time.Millisecond},
		{File: "b.bin", Stage: driver.StageDecode, Status: driver.StatusError, Err: errors.New("bad tag")},
		{File: "unknown.bin", Stage: driver.StageDecode, Status: driver.StatusDone},
	}
	for _, ev := range events {
		model.Update(eventMsg(ev))
	}

	if model.ok != 1 || model.failed != 1 {
		t.Fatalf("ok=%d failed=%d, want 1 and 1", model.ok, model.failed)
	}
	want := []string{"ok", "error", "queued"}
	for i, item := range model.items {
		if item.status != want[i] {
			t.Errorf("item %d status %q, want %q", i, item.status, want[i])
		}
	}
	if got := model.percent(); got < 0.66 || got > 0.67 {
		t.Errorf("percent = %v, want 2/3", got)
	}

	view := model.View()
	if !strings.Contains(view, "checking 2/3, 1 failed") {
		t.Errorf("unexpected header in view:\n%s", view)
	}
	if !strings.Contains(view, "decoding") && !strings.Contains(view, "queued") {
		t.Errorf("pending row missing from view:\n%s", view)
	}
}

func TestProgressModelDone(t *testing.T) {
	model := NewProgressModel("checking", []string{"a.bin"}, nil).(*progressModel)
	_, cmd := model.Update(doneMsg{})
	if !model.done || cmd == nil {
		t.Fatalf("expected done model with quit command")
	}
	if !strings.Contains(model.View(), "done: checking") {
		t.Errorf("unexpected final view:\n%s", model.View())
	}
}

func TestProgressModelListensUntilClosed(t *testing.T) {
	ch := make(chan driver.Event, 1)
	model := NewProgressModel("checking", []string{"a.bin"}, ch).(*progressModel)

	ch <- driver.Event{File: "a.bin", Status: driver.StatusQueued}
	if _, ok := model.listenForEvent()().(eventMsg); !ok {
		t.Fatalf("expected event message")
	}
	close(ch)
	if _, ok := model.listenForEvent()().(doneMsg); !ok {
		t.Fatalf("expected done message after close")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a-very-long-path.bin", 10, "a-very-..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
