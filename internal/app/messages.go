package app

import "time"

// tickMsg drains every loader kind once per interval; the foreground
// never awaits a result, only polls for one that has already arrived.
type tickMsg time.Time

// fileChangedMsg is delivered once per settled batch of filesystem
// changes; watchCmd re-arms itself after each delivery.
type fileChangedMsg struct{}

// prPollMsg fires the 120s PR list/detail refresh timer.
type prPollMsg time.Time

// editorDoneMsg carries the external editor's exit outcome back into
// the model once the terminal has been restored.
type editorDoneMsg struct {
	err error
}

// reviewSubmittedMsg reports the outcome of an approve/request-changes/
// comment/line-comment submission.
type reviewSubmittedMsg struct {
	err error
}
