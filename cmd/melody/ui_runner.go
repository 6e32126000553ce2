package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"melody/internal/driver"
	"melody/internal/ui"
)

type checkOutcome struct {
	results []driver.ParseResult
	err     error
}

// runCheckWithUI runs ParseFiles in the background and renders its events.
func runCheckWithUI(ctx context.Context, title, baseDir string, files []string, opts driver.Options) ([]driver.ParseResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		next := opts.Observer
		optsCopy.Observer = func(ev driver.Event) {
			if next != nil {
				next(ev)
			}
			events <- ev
		}
		_, results, err := driver.ParseFiles(ctx, baseDir, files, optsCopy)
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// если UI вышел раньше, не даём воркерам заблокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
