// SPDX-License-Identifier: GPL-3.0-or-later

package collector

import (
	_ "github.com/netdata/swosd/plugin/swos.d/collector/swos"
)
