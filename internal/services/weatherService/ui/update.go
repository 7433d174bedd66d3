package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	prefsservice "github.com/redjax/wx/internal/services/prefsService"
	"github.com/redjax/wx/internal/services/weatherService/workflow"
)

func (m UIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.layout.SetSize(msg.Width, msg.Height)
		m.input.Width = min(60, max(20, msg.Width-10))
		m.help.Width = msg.Width
		return m, nil

	// Terminal focus stands in for window visibility.
	case tea.FocusMsg:
		m.wf.VisibilityChanged(true)
		return m, nil
	case tea.BlurMsg:
		m.wf.VisibilityChanged(false)
		return m, nil

	case snapshotMsg:
		snap := workflow.Snapshot(msg)
		if snap.Version <= m.snap.Version {
			return m, nil
		}
		if !sameResults(m.snap, snap) {
			m.cursor = 0
		}
		m.snap = snap
		return m, nil

	case prefsMsg:
		m.preferences = prefsservice.Preferences(msg)
		m.errMsg = ""
		return m, nil

	case prefsErrMsg:
		m.errMsg = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refreshCmd()
		case key.Matches(msg, m.keys.Unit):
			return m, m.toggleUnitCmd()
		case key.Matches(msg, m.keys.Theme):
			return m, m.toggleThemeCmd()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.snap.Results)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Select):
			if len(m.snap.Results) > 0 {
				return m, m.selectCmd(m.cursor)
			}
			return m, m.submitCmd()
		case key.Matches(msg, m.keys.Clear):
			m.input.SetValue("")
			m.cursor = 0
			m.wf.Input("")
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.cursor = 0
		m.wf.Input(v)
	}
	return m, cmd
}

func sameResults(a, b workflow.Snapshot) bool {
	if len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			return false
		}
	}
	return true
}
