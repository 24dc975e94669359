// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import "regexp"

// SwOS answers with a JavaScript object literal: bare keys, single quoted strings
// and bare hex numbers. The rules below turn it into JSON and must run in order.

type rewriteRule struct {
	re   *regexp.Regexp
	repl []byte
}

func (r rewriteRule) apply(b []byte) []byte {
	return r.re.ReplaceAll(b, r.repl)
}

var (
	ruleQuoteKeys = rewriteRule{
		re:   regexp.MustCompile(`([{,]\s*)([a-zA-Z][a-zA-Z0-9]*)(\s*:)`),
		repl: []byte(`$1"$2"$3`),
	}
	ruleDoubleQuotes = rewriteRule{
		re:   regexp.MustCompile(`'`),
		repl: []byte(`"`),
	}
	ruleQuoteHex = rewriteRule{
		re:   regexp.MustCompile(`([:,\[]\s*)(0x[0-9a-fA-F]+)`),
		repl: []byte(`$1"$2"`),
	}

	repairRules = []rewriteRule{
		ruleQuoteKeys,
		ruleDoubleQuotes,
		ruleQuoteHex,
	}
)

// repairJSON never fails. Input outside the SwOS shape is left for the JSON parser to reject.
func repairJSON(body []byte) []byte {
	for _, rule := range repairRules {
		body = rule.apply(body)
	}
	return body
}
