package testhelpers

import (
	"sync"
	"testing"
)

// Writer forwards writes to t.Log and panics if written to after the test
// has finished. Goroutines leaking past test cleanup surface as panics
// instead of corrupting the output of unrelated tests.
type Writer struct {
	t    testing.TB
	mu   sync.Mutex
	done bool
}

// NewWriter returns a Writer bound to the lifetime of t.
func NewWriter(t testing.TB) *Writer {
	t.Helper()
	w := &Writer{t: t}
	t.Cleanup(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.done = true
	})
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		panic("log write after test finished: " + string(p))
	}
	w.t.Log(string(p))
	return len(p), nil
}
