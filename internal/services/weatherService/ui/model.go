package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	prefsservice "github.com/redjax/wx/internal/services/prefsService"
	"github.com/redjax/wx/internal/services/weatherService/workflow"
	"github.com/redjax/wx/internal/utils/terminal"
)

type UIModel struct {
	// services
	ctx   context.Context
	wf    *workflow.Workflow
	prefs *prefsservice.Store

	// latest state pushed by the workflow and preference store
	snap        workflow.Snapshot
	preferences prefsservice.Preferences

	// search box and result cursor
	input  textinput.Model
	cursor int

	spinner spinner.Model
	keys    keyMap
	help    help.Model
	layout  *terminal.Layout

	// errMsg holds preference write failures
	errMsg string
}

func NewUIModel(ctx context.Context, wf *workflow.Workflow, prefs *prefsservice.Store) UIModel {
	ti := textinput.New()
	ti.Placeholder = "Search for a city"
	ti.Prompt = "🔎 "
	ti.CharLimit = 120
	ti.Width = 40
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return UIModel{
		ctx:         ctx,
		wf:          wf,
		prefs:       prefs,
		snap:        wf.Snapshot(),
		preferences: prefs.Preferences(),
		input:       ti,
		spinner:     sp,
		keys:        defaultKeyMap(),
		help:        help.New(),
		layout:      terminal.NewLayout(),
	}
}

func (m UIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.initialLoadCmd())
}
