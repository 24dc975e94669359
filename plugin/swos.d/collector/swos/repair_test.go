// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestRuleQuoteKeys(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"first key":        {input: `{id:1}`, want: `{"id":1}`},
		"following keys":   {input: `{a:1,r64:2}`, want: `{"a":1,"r64":2}`},
		"whitespace":       {input: "{ id :1,\n en:2}", want: "{ \"id\" :1,\n \"en\":2}"},
		"digit led":        {input: `{1a:1}`, want: `{1a:1}`},
		"quoted value":     {input: `{id:'ab'}`, want: `{"id":'ab'}`},
		"nested object":    {input: `{a:{b:1}}`, want: `{"a":{"b":1}}`},
		"list values kept": {input: `{nm:['ab','cd']}`, want: `{"nm":['ab','cd']}`},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, string(ruleQuoteKeys.apply([]byte(test.input))))
		})
	}
}

func TestRuleDoubleQuotes(t *testing.T) {
	assert.Equal(t, `{"id":"ab","nm":["c","d"]}`, string(ruleDoubleQuotes.apply([]byte(`{"id":'ab',"nm":['c','d']}`))))
}

func TestRuleQuoteHex(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"value":        {input: `{"en":0x3}`, want: `{"en":"0x3"}`},
		"list":         {input: `{"a":[0x01,0x02]}`, want: `{"a":["0x01","0x02"]}`},
		"spaces":       {input: `{"a":[ 0x01, 0xAB ]}`, want: `{"a":[ "0x01", "0xAB" ]}`},
		"quoted kept":  {input: `{"id":"0xAB"}`, want: `{"id":"0xAB"}`},
		"decimal kept": {input: `{"a":10}`, want: `{"a":10}`},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, string(ruleQuoteHex.apply([]byte(test.input))))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	got := repairJSON([]byte(`{id:'0xAB',en:0x3}`))

	require.True(t, gjson.ValidBytes(got), string(got))
	assert.JSONEq(t, `{"id":"0xAB","en":"0x3"}`, string(got))
}

func TestRepairJSON_Captures(t *testing.T) {
	tests := map[string]struct {
		file   string
		checks map[string]string
	}{
		"sys.b": {
			file: "testdata/sys.b.txt",
			checks: map[string]string{
				"id":  "4d696b726f54696b",
				"ip":  "0x0158a8c0",
				"ver": "322e3137",
			},
		},
		"link.b": {
			file: "testdata/link.b.txt",
			checks: map[string]string{
				"en":     "0x0b",
				"nm.1":   "506f727432",
				"spd.4":  "0x07",
				"nm.#":   "5",
				"spdc.0": "0x02",
			},
		},
		"!stats.b": {
			file: "testdata/stats.b.txt",
			checks: map[string]string{
				"rrb.0":  "0x0a",
				"rbh.3":  "0x00000002",
				"r1k.#":  "5",
				"tmax.1": "0x01",
				"rr":     "0x00",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			body, err := os.ReadFile(test.file)
			require.NoError(t, err)

			got := repairJSON(body)
			require.True(t, gjson.ValidBytes(got), string(got))

			for path, want := range test.checks {
				assert.Equalf(t, want, gjson.GetBytes(got, path).String(), "path '%s'", path)
			}
		})
	}
}

func TestRepairJSON_MalformedInputIsNotRepaired(t *testing.T) {
	got := repairJSON([]byte(`{id:'ab'`))

	assert.False(t, gjson.ValidBytes(got))
}
