package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

// #region write-error
// WriteError reports a sink that could not be written. Audit failures are
// non-fatal: callers log them and still return the answer.
type WriteError struct {
	Sink string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("audit write to %s: %v", e.Sink, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// #endregion write-error

// #region logger
// Logger appends one redacted record per transaction to a newline-delimited
// JSON sink, optionally mirroring each record into a SQLite store. An empty
// sink path with no mirror makes Write a no-op success: logging is opt-in.
type Logger struct {
	path     string
	redactor *Redactor
	mirror   *Store
	mu       sync.Mutex
}

// NewLogger creates a Logger. redactor must be non-nil; mirror may be nil.
func NewLogger(path string, redactor *Redactor, mirror *Store) *Logger {
	return &Logger{path: path, redactor: redactor, mirror: mirror}
}

// Write redacts, serializes, and appends the record: one line, one write,
// newline-terminated. The mutex keeps concurrent completions from
// interleaving partial lines in the sink.
func (l *Logger) Write(rec Record) error {
	if l.path == "" && l.mirror == nil {
		return nil
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.TS == "" {
		rec.TS = Now()
	}
	rec.Question = l.redactor.Apply(rec.Question)
	rec.Prompt = l.redactor.Apply(rec.Prompt)

	if l.path != "" {
		line, err := json.Marshal(rec)
		if err != nil {
			return &WriteError{Sink: l.path, Err: err}
		}

		l.mu.Lock()
		err = appendLine(l.path, line)
		l.mu.Unlock()
		if err != nil {
			return &WriteError{Sink: l.path, Err: err}
		}
	}

	if l.mirror != nil {
		if err := l.mirror.Insert(rec); err != nil {
			return &WriteError{Sink: "sqlite mirror", Err: err}
		}
	}
	return nil
}

func appendLine(path string, line []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, werr := f.Write(append(line, '\n'))
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// #endregion logger
