package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/redjax/wx/internal/services/weatherService/workflow"
)

// Workflow calls block until the operation settles; their results reach the
// model as snapshotMsg through the subscription set up in Run.

func (m UIModel) initialLoadCmd() tea.Cmd {
	return func() tea.Msg {
		m.wf.InitialLoad(m.ctx)
		return nil
	}
}

func (m UIModel) selectCmd(i int) tea.Cmd {
	return func() tea.Msg {
		m.wf.SelectIndex(m.ctx, i)
		return nil
	}
}

func (m UIModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		m.wf.Submit(m.ctx)
		return nil
	}
}

func (m UIModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		m.wf.Refresh(m.ctx, workflow.TriggerManual)
		return nil
	}
}

func (m UIModel) toggleUnitCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.prefs.ToggleUnit(); err != nil {
			return prefsErrMsg{err: fmt.Errorf("saving unit: %w", err)}
		}
		return nil
	}
}

func (m UIModel) toggleThemeCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.prefs.ToggleTheme(); err != nil {
			return prefsErrMsg{err: fmt.Errorf("saving theme: %w", err)}
		}
		return nil
	}
}
