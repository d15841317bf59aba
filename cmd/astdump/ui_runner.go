package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"astdump/internal/driver"
	"astdump/internal/source"
	"astdump/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []driver.CheckResult
	err     error
}

// runCheckWithUI runs CheckFiles in the background and drives the progress
// view from its events until every file has finished.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.CheckOptions) (*source.FileSet, []driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.CheckFiles(ctx, files, optsCopy)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the view may quit early; keep the workers from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
