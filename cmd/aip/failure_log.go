package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// failureLog appends one tab-separated line per failed target. A zero path disables it.
type failureLog struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func newFailureLog(path string) *failureLog {
	return &failureLog{path: path, now: time.Now}
}

func (l *failureLog) record(traceID, target string, err error) error {
	if l == nil || l.path == "" {
		return nil
	}

	if traceID == "" {
		traceID = "unknown"
	}
	line := fmt.Sprintf("%s\tlevel=ERROR\ttrace-id=%s\ttarget=%s\tmessage=%v\n",
		l.now().Format(time.RFC3339), traceID, target, err)

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "" && dir != "." {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return mkErr
		}
	}

	f, openErr := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if openErr != nil {
		return openErr
	}
	defer f.Close()

	_, writeErr := f.WriteString(line)
	return writeErr
}

// fail records err against target and returns it, folding in any failure to write the log.
func (l *failureLog) fail(target string, err error) error {
	if logErr := l.record(traceIDOf(err), target, err); logErr != nil {
		return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
	}
	return err
}
