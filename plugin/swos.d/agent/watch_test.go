// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHash(t *testing.T) {
	s1 := configSnapshot{
		Plugin:  defaultConfig(),
		Modules: map[string]moduleConfig{"swos": {Jobs: []map[string]any{{"name": "local", "address": "10.0.0.1"}}}},
	}
	s2 := configSnapshot{
		Plugin:  defaultConfig(),
		Modules: map[string]moduleConfig{"swos": {Jobs: []map[string]any{{"name": "local", "address": "10.0.0.1"}}}},
	}
	s3 := configSnapshot{
		Plugin:  defaultConfig(),
		Modules: map[string]moduleConfig{"swos": {Jobs: []map[string]any{{"name": "local", "address": "10.0.0.2"}}}},
	}

	assert.Equal(t, snapshotHash(s1), snapshotHash(s2))
	assert.NotEqual(t, snapshotHash(s1), snapshotHash(s3))
}

func TestAgent_watchConfig(t *testing.T) {
	tests := map[string]struct {
		rewrite    string
		wantReload bool
	}{
		"content changed": {
			rewrite:    "jobs:\n  - name: local\n    address: 10.0.0.2\n",
			wantReload: true,
		},
		"same content rewritten": {
			rewrite:    "jobs:\n  - name: local\n    address: 10.0.0.1\n",
			wantReload: false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			modDir := filepath.Join(dir, "swos.d")
			writeFile(t, filepath.Join(dir, "swos.d.conf"), "enabled: yes\n")
			require.NoError(t, mkdir(modDir))
			writeFile(t, filepath.Join(modDir, "swos.conf"), "jobs:\n  - name: local\n    address: 10.0.0.1\n")

			a := New(Config{Name: "swos.d", ConfDir: []string{dir}, ModulesConfDir: []string{modDir}})
			a.settleDelay = time.Millisecond * 50

			names := []string{"swos"}
			hash := snapshotHash(a.takeSnapshot(a.loadPluginConfig(), names))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var wg sync.WaitGroup
			wg.Add(1)
			go func() { defer wg.Done(); a.watchConfig(ctx, names, hash) }()

			time.Sleep(time.Millisecond * 200)
			writeFile(t, filepath.Join(modDir, "swos.conf"), test.rewrite)

			var reloaded bool
			select {
			case <-a.reload:
				reloaded = true
			case <-time.After(time.Second):
			}

			cancel()
			wg.Wait()

			assert.Equal(t, test.wantReload, reloaded)
		})
	}
}
