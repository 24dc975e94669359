// SPDX-License-Identifier: GPL-3.0-or-later

package safewriter

import (
	"io"
	"os"
	"sync"
)

// Stdout is shared by the agent keep-alive and every job.
var Stdout = New(os.Stdout)

// New wraps w so that concurrent writers never interleave a single Write call.
func New(w io.Writer) io.Writer {
	return &writer{w: w}
}

type writer struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	n, err = w.w.Write(p)
	w.mu.Unlock()
	return n, err
}
