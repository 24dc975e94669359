// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// jobLocker holds one lock file per running job so two plugin processes never poll
// the same switch with the same job.
type jobLocker struct {
	dir    string
	suffix string

	mu    sync.Mutex
	locks map[string]*flock.Flock
}

func newJobLocker(dir string) *jobLocker {
	return &jobLocker{
		dir:    dir,
		suffix: ".collector.lock",
		locks:  make(map[string]*flock.Flock),
	}
}

func (l *jobLocker) lock(jobName string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filename := l.filename(jobName)
	if _, ok := l.locks[filename]; ok {
		return true, nil
	}

	fl := flock.New(filename)
	ok, err := fl.TryLock()
	if !ok {
		_ = fl.Close()
		return false, err
	}

	l.locks[filename] = fl
	return true, nil
}

func (l *jobLocker) unlock(jobName string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filename := l.filename(jobName)
	if fl, ok := l.locks[filename]; ok {
		delete(l.locks, filename)
		_ = fl.Close()
	}
}

func (l *jobLocker) unlockAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for filename, fl := range l.locks {
		delete(l.locks, filename)
		_ = fl.Close()
	}
}

func (l *jobLocker) filename(jobName string) string {
	return filepath.Join(l.dir, jobName+l.suffix)
}
