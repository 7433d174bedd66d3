package ui

import (
	prefsservice "github.com/redjax/wx/internal/services/prefsService"
	"github.com/redjax/wx/internal/services/weatherService/workflow"
)

type snapshotMsg workflow.Snapshot

type prefsMsg prefsservice.Preferences

type prefsErrMsg struct {
	err error
}
