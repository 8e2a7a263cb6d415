package registry

import (
	"fmt"
	"strings"
)

// UnknownTaskError reports a task name with no registered definition.
type UnknownTaskError struct {
	Name  string
	Known []string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task %q (known tasks: %s)", e.Name, strings.Join(e.Known, ", "))
}

// UnknownModelError reports a message-passing implementation name with no
// registered definition.
type UnknownModelError struct {
	Name  string
	Known []string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q (known models: %s)", e.Name, strings.Join(e.Known, ", "))
}
