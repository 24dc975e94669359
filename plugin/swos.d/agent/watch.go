// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gohugoio/hashstructure"
)

// configSnapshot is everything the running jobs were built from.
type configSnapshot struct {
	Plugin  config
	Modules map[string]moduleConfig
}

func (a *Agent) takeSnapshot(cfg config, moduleNames []string) configSnapshot {
	s := configSnapshot{Plugin: cfg, Modules: make(map[string]moduleConfig, len(moduleNames))}
	for _, name := range moduleNames {
		s.Modules[name] = a.loadModuleConfig(name)
	}
	return s
}

func snapshotHash(s configSnapshot) uint64 {
	h, err := hashstructure.Hash(s, nil)
	if err != nil {
		return 0
	}
	return h
}

// watchConfig requests a restart when the plugin or module config files change content.
func (a *Agent) watchConfig(ctx context.Context, moduleNames []string, startHash uint64) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		a.Warningf("config watcher: %v", err)
		return
	}
	defer func() { _ = w.Close() }()

	var dirs []string
	dirs = append(dirs, a.ConfDir...)
	dirs = append(dirs, a.ModulesConfDir...)
	for _, dir := range dirs {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			continue
		}
		if err := w.Add(dir); err != nil {
			a.Warningf("config watcher: %v", err)
		}
	}
	if len(w.WatchList()) == 0 {
		return
	}

	// editors write in bursts, so changes are settled before rehashing
	settle := time.NewTimer(time.Hour)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			a.Warningf("config watcher: %v", err)
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != ".conf" || ev.Op == fsnotify.Chmod {
				continue
			}
			a.Debugf("config watcher: %s", ev)
			settle.Reset(a.settleDelay)
		case <-settle.C:
			cfg := a.loadPluginConfig()
			if snapshotHash(a.takeSnapshot(cfg, moduleNames)) == startHash {
				continue
			}
			a.Info("configuration changed, restarting running instance")
			select {
			case a.reload <- struct{}{}:
			default:
			}
			return
		}
	}
}
