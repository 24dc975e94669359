// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		args    []string
		want    Option
		wantErr bool
	}{
		"defaults": {
			args: []string{"swos.d.plugin"},
			want: Option{UpdateEvery: 1, Module: "all"},
		},
		"update every positional": {
			args: []string{"swos.d.plugin", "10"},
			want: Option{UpdateEvery: 10, Module: "all"},
		},
		"flags": {
			args: []string{"swos.d.plugin", "-d", "-m", "swos", "-c", "/etc/netdata", "-c", "/usr/lib/netdata/conf.d"},
			want: Option{
				UpdateEvery: 1,
				Module:      "swos",
				Debug:       true,
				ConfDir:     []string{"/etc/netdata", "/usr/lib/netdata/conf.d"},
			},
		},
		"bad update every": {
			args:    []string{"swos.d.plugin", "often"},
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			opt, err := Parse(test.args)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, *opt)
		})
	}
}
