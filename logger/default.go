// SPDX-License-Identifier: GPL-3.0-or-later

package logger

var defaultLogger = New()

// Warningf logs with the process-wide logger, for use before any component logger exists.
func Warningf(format string, a ...any) { defaultLogger.Warningf(format, a...) }
