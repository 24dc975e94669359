// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"

	"github.com/lmittmann/tint"
)

const noticeTerm = "\u001B[34m" + "NTC" + "\u001B[0m"

// newTextHandler writes logfmt records for netdata, which collects plugin stderr.
func newTextHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level.lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				// journald stamps every line itself
				if isJournal {
					return slog.Attr{}
				}
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					return slog.String(a.Key, levelName(lvl))
				}
			}
			return a
		},
	})
}

// newTerminalHandler is used when the plugin is started by hand.
func newTerminalHandler(w io.Writer) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		AddSource: true,
		Level:     Level.lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.SourceKey:
				if !Level.Enabled(slog.LevelDebug) {
					return slog.Attr{}
				}
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == levelNotice {
					return slog.String(a.Key, noticeTerm)
				}
			}
			return a
		},
	})
}

// callDepthHandler points the record source at the caller of Logger methods
// instead of the Logger itself.
type callDepthHandler struct {
	depth int
	sh    slog.Handler
}

func withCallDepth(depth int, sh slog.Handler) slog.Handler {
	if h, ok := sh.(*callDepthHandler); ok {
		sh = h.sh
	}
	return &callDepthHandler{depth: depth, sh: sh}
}

func (h *callDepthHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.sh.Enabled(ctx, lvl)
}

func (h *callDepthHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return withCallDepth(h.depth, h.sh.WithAttrs(attrs))
}

func (h *callDepthHandler) WithGroup(name string) slog.Handler {
	return withCallDepth(h.depth, h.sh.WithGroup(name))
}

func (h *callDepthHandler) Handle(ctx context.Context, r slog.Record) error {
	var pcs [1]uintptr
	// +2 for runtime.Callers and Handle
	runtime.Callers(h.depth+2, pcs[:])
	r.PC = pcs[0]
	return h.sh.Handle(ctx, r)
}
