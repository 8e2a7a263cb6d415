package app

import (
	"fmt"
	"time"
)

// runIDTimeFormat matches the timestamp convention of stored run artifacts.
const runIDTimeFormat = "2006-01-02_15-04-05"

// MakeRunID chooses a run ID, based on the run-name parameter and the
// current local time.
func MakeRunID(model, task, runName string) string {
	return makeRunID(model, task, runName, time.Now())
}

func makeRunID(model, task, runName string, now time.Time) string {
	if runName != "" {
		return runName
	}
	return fmt.Sprintf("%s_%s__%s", model, task, now.Format(runIDTimeFormat))
}
