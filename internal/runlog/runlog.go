// Package runlog writes the human-readable record of a training run: an
// append-only text file named after the run, mirrored line by line to
// standard output. Structured diagnostics go through slog instead; this file
// is the artifact a researcher reads after the run.
package runlog

import (
	"fmt"
	"io"
	"os"
)

// Sink accepts run-record lines. The trainer depends on this interface only,
// so tests can capture the record in memory.
type Sink interface {
	Logf(format string, args ...any)
}

// Log is the file-backed Sink for a real run. It is single-writer: one run
// owns its log exclusively.
type Log struct {
	file   *os.File
	mirror io.Writer
}

// New opens (or creates) the log file in append mode, mirroring every line to
// the given writer. Pass os.Stdout for the conventional mirror.
func New(path string, mirror io.Writer) (*Log, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log %s: %w", path, err)
	}
	return &Log{file: file, mirror: mirror}, nil
}

// Logf appends one line to the run record and mirrors it. A failed write is
// fatal to the run, so it panics up to the run's recover boundary rather than
// silently dropping record lines.
func (l *Log) Logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...) + "\n"
	if _, err := l.file.WriteString(line); err != nil {
		panic(fmt.Errorf("failed to append to run log %s: %w", l.file.Name(), err))
	}
	if l.mirror != nil {
		fmt.Fprint(l.mirror, line)
	}
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	return l.file.Close()
}

// WriterSink is a file-less Sink writing straight to an io.Writer. Evaluation
// of an existing checkpoint produces no run record of its own, so it logs
// through one of these.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Logf(format string, args ...any) {
	fmt.Fprintf(s.W, format+"\n", args...)
}
