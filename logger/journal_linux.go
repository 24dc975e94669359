// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux

package logger

import (
	"os"

	"github.com/coreos/go-systemd/v22/journal"
)

// isStderrConnectedToJournal reports whether stderr is the stream systemd set up in JOURNAL_STREAM.
func isStderrConnectedToJournal() bool {
	if os.Getenv("JOURNAL_STREAM") == "" {
		return false
	}
	ok, err := journal.StderrIsJournalStream()
	return err == nil && ok
}
