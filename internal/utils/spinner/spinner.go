package spinner

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// StartSpinner starts a terminal spinner on w with the given message.
// Returns a stop function to halt and clear the spinner.
//
// Usage: assign the spinner to a 'stop' variable, run some code, then call stop().
// i.e.:
//
//	stop := spinner.StartSpinner(os.Stderr, "Loading weather…")
//	snap := wf.Snapshot()
//	stop()
func StartSpinner(w io.Writer, message string) func() {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()

	return s.Stop
}
