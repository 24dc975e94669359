// SPDX-License-Identifier: GPL-3.0-or-later

package executable

import (
	"os"
	"path/filepath"
	"strings"
)

var (
	Name      = "swos.d"
	Directory = ""
)

func init() {
	path, err := os.Executable()
	if err != nil || path == "" {
		return
	}

	_, Name = filepath.Split(path)
	Name = strings.TrimSuffix(Name, ".plugin")

	if strings.HasSuffix(Name, ".test") {
		Name = "test"
	}

	// swosdplugin => swos.d
	if strings.HasSuffix(Name, "dplugin") {
		Name = strings.TrimSuffix(Name, "dplugin") + ".d"
	}

	Directory = filepath.Dir(path)
}
