package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	prefsservice "github.com/redjax/wx/internal/services/prefsService"
	"github.com/redjax/wx/internal/services/weatherService/workflow"
)

// Run starts the interactive program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, wf *workflow.Workflow, prefs *prefsservice.Store) error {
	p := tea.NewProgram(
		NewUIModel(ctx, wf, prefs),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	stop := connect(ctx, p, wf, prefs)
	defer stop()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running weather UI: %w", err)
	}
	return nil
}

// connect feeds workflow snapshots and preference changes into p. Update
// itself drives the workflow, and p.Send blocks until the event loop reads
// the message, so publishers only hand off to a forwarding goroutine.
func connect(ctx context.Context, p *tea.Program, wf *workflow.Workflow, prefs *prefsservice.Store) func() {
	ctx, cancel := context.WithCancel(ctx)

	snaps := newForwarder(func(old, next workflow.Snapshot) bool {
		return next.Version > old.Version
	})
	go snaps.run(ctx, func(s workflow.Snapshot) { p.Send(snapshotMsg(s)) })
	unsubscribeWorkflow := wf.Subscribe(snaps.put)

	changes := newForwarder[prefsservice.Preferences](nil)
	go changes.run(ctx, func(pr prefsservice.Preferences) { p.Send(prefsMsg(pr)) })
	unsubscribePrefs := prefs.Subscribe(changes.put)

	return func() {
		unsubscribeWorkflow()
		unsubscribePrefs()
		cancel()
	}
}
