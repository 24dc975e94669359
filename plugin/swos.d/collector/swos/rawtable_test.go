// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawTable(t *testing.T) {
	tests := map[string]struct {
		body    string
		want    rawTable
		wantErr bool
	}{
		"scalars and lists": {
			body: `{id:'4869',en:0x3,nm:['41','42']}`,
			want: rawTable{
				"id": {scalar: "4869"},
				"en": {scalar: "0x3"},
				"nm": {list: []string{"41", "42"}, isList: true},
			},
		},
		"other shapes skipped": {
			body: `{id:'41',n:10,o:{a:0x1},mixed:[0x1,2],deep:[[0x1]]}`,
			want: rawTable{
				"id": {scalar: "41"},
			},
		},
		"empty list": {
			body: `{nm:[]}`,
			want: rawTable{
				"nm": {list: []string{}, isList: true},
			},
		},
		"not an object": {
			body:    `[0x1,0x2]`,
			wantErr: true,
		},
		"truncated": {
			body:    `{id:'41',nm:['41'`,
			wantErr: true,
		},
		"empty body": {
			body:    ``,
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			tbl, err := parseRawTable(endpointSystem, []byte(test.body))

			if test.wantErr {
				var de *DecodeError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, endpointSystem, de.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, tbl)
		})
	}
}

func TestRawTable_Lookup(t *testing.T) {
	tbl := rawTable{
		"id": {scalar: "41"},
		"nm": {list: []string{"41"}, isList: true},
	}

	v, err := tbl.scalar("id")
	require.NoError(t, err)
	assert.Equal(t, "41", v)

	list, err := tbl.list("nm")
	require.NoError(t, err)
	assert.Equal(t, []string{"41"}, list)

	_, err = tbl.scalar("nm")
	assert.ErrorIs(t, err, errNotScalar)
	_, err = tbl.list("id")
	assert.ErrorIs(t, err, errNotList)
	_, err = tbl.list("missing")
	assert.ErrorIs(t, err, errMissingKey)
}
