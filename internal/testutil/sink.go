package testutil

import (
	"fmt"
	"strings"
)

// MemorySink captures run-record lines for assertions.
type MemorySink struct {
	Lines []string
}

func (s *MemorySink) Logf(format string, args ...any) {
	s.Lines = append(s.Lines, fmt.Sprintf(format, args...))
}

// Contains reports whether any captured line contains the substring.
func (s *MemorySink) Contains(substr string) bool {
	for _, line := range s.Lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
