// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"log/slog"
	"strings"
)

const (
	levelNotice = slog.Level(2)
	levelOff    = slog.Level(99)
)

// levelByName maps netdata log level names (NETDATA_LOG_LEVEL) to slog levels.
var levelByName = map[string]slog.Level{
	"debug":     slog.LevelDebug,
	"info":      slog.LevelInfo,
	"notice":    levelNotice,
	"warn":      slog.LevelWarn,
	"warning":   slog.LevelWarn,
	"err":       slog.LevelError,
	"error":     slog.LevelError,
	"critical":  levelOff,
	"alert":     levelOff,
	"emergency": levelOff,
}

// Level is the minimum level shared by every Logger of the process.
var Level = &level{lvl: &slog.LevelVar{}}

type level struct {
	lvl *slog.LevelVar
}

func (l *level) Enabled(lvl slog.Level) bool { return lvl >= l.lvl.Level() }

func (l *level) Set(lvl slog.Level) { l.lvl.Set(lvl) }

// SetByName sets the level by its netdata name. Unknown names leave the level unchanged.
func (l *level) SetByName(name string) bool {
	lvl, ok := levelByName[strings.ToLower(strings.TrimSpace(name))]
	if ok {
		l.lvl.Set(lvl)
	}
	return ok
}

func levelName(lvl slog.Level) string {
	if lvl == levelNotice {
		return "notice"
	}
	return strings.ToLower(lvl.String())
}
