// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLocker_lock(t *testing.T) {
	tests := map[string]func(t *testing.T, dir string){
		"lock a job": func(t *testing.T, dir string) {
			l := newJobLocker(dir)

			ok, err := l.lock("swos_local")
			assert.True(t, ok)
			assert.NoError(t, err)
			assert.FileExists(t, filepath.Join(dir, "swos_local.collector.lock"))
		},
		"lock the same job twice": func(t *testing.T, dir string) {
			l := newJobLocker(dir)

			ok, err := l.lock("swos_local")
			require.True(t, ok)
			require.NoError(t, err)

			ok, err = l.lock("swos_local")
			assert.True(t, ok)
			assert.NoError(t, err)
		},
		"job locked by another locker": func(t *testing.T, dir string) {
			l1 := newJobLocker(dir)
			l2 := newJobLocker(dir)

			ok, err := l1.lock("swos_local")
			require.True(t, ok)
			require.NoError(t, err)

			ok, err = l2.lock("swos_local")
			assert.False(t, ok)
			assert.NoError(t, err)
		},
		"lock released by unlock": func(t *testing.T, dir string) {
			l1 := newJobLocker(dir)
			l2 := newJobLocker(dir)

			ok, _ := l1.lock("swos_local")
			require.True(t, ok)
			l1.unlock("swos_local")

			ok, err := l2.lock("swos_local")
			assert.True(t, ok)
			assert.NoError(t, err)
		},
		"lock dir does not exist": func(t *testing.T, dir string) {
			l := newJobLocker(filepath.Join(dir, "missing"))

			ok, err := l.lock("swos_local")
			assert.False(t, ok)
			assert.Error(t, err)
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test(t, t.TempDir())
		})
	}
}

func TestJobLocker_unlockAll(t *testing.T) {
	dir := t.TempDir()
	l1 := newJobLocker(dir)
	l2 := newJobLocker(dir)

	for _, name := range []string{"swos_a", "swos_b"} {
		ok, err := l1.lock(name)
		require.True(t, ok)
		require.NoError(t, err)
	}

	l1.unlockAll()

	for _, name := range []string{"swos_a", "swos_b"} {
		ok, err := l2.lock(name)
		assert.True(t, ok)
		assert.NoError(t, err)
	}
}
