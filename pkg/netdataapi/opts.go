// SPDX-License-Identifier: GPL-3.0-or-later

package netdataapi

import (
	"strconv"
	"strings"
)

// ChartOpts are the CHART command parameters in wire order.
type ChartOpts struct {
	TypeID      string
	ID          string
	Name        string
	Title       string
	Units       string
	Family      string
	Context     string
	ChartType   string
	Priority    int
	UpdateEvery int
	Options     string
	Plugin      string
	Module      string
}

func (o ChartOpts) line() string {
	return command("CHART",
		o.TypeID+"."+o.ID,
		o.Name,
		stripQuotes(o.Title),
		o.Units,
		stripQuotes(o.Family),
		o.Context,
		o.ChartType,
		strconv.Itoa(o.Priority),
		strconv.Itoa(o.UpdateEvery),
		o.Options,
		o.Plugin,
		o.Module,
	)
}

// DimensionOpts are the DIMENSION command parameters in wire order.
type DimensionOpts struct {
	ID         string
	Name       string
	Algorithm  string
	Multiplier int
	Divisor    int
	Options    string
}

func (o DimensionOpts) line() string {
	return command("DIMENSION",
		o.ID,
		o.Name,
		o.Algorithm,
		strconv.Itoa(o.Multiplier),
		strconv.Itoa(o.Divisor),
		o.Options,
	)
}

// command joins single-quoted params after the keyword.
func command(keyword string, params ...string) string {
	var sb strings.Builder
	sb.WriteString(keyword)
	for _, p := range params {
		sb.WriteString(" '")
		sb.WriteString(p)
		sb.WriteByte('\'')
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Values are wrapped in single quotes on the wire, so they must not contain any.
var quoteStripper = strings.NewReplacer("'", "")

func stripQuotes(s string) string { return quoteStripper.Replace(s) }
