package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"sexpr/internal/driver"
	"sexpr/internal/pipeline"
	"sexpr/internal/ui"
)

type parseDirOutcome struct {
	result *driver.DirResult
	err    error
}

// runParseDirWithUI runs ParseDir while a Bubble Tea program renders its
// progress events on out.
func runParseDirWithUI(ctx context.Context, out io.Writer, dir string, opts driver.Options) (*driver.DirResult, error) {
	files, err := driver.ListFiles(dir, opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan parseDirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.ParseDir(ctx, dir, optsCopy)
		outcomeCh <- parseDirOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(fmt.Sprintf("parsing %s", dir), files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// UI мог выйти раньше (ctrl+c) — не даём воркерам заблокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
