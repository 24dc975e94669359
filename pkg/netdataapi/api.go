// SPDX-License-Identifier: GPL-3.0-or-later

package netdataapi

import (
	"io"
	"strconv"
)

// API writes the netdata external plugins protocol.
// See: https://learn.netdata.cloud/docs/agent/plugins.d#the-output-of-the-plugin
type API struct {
	io.Writer
}

var (
	endLine          = []byte("END\n\n")
	clabelCommitLine = []byte("CLABEL_COMMIT\n")
	disableLine      = []byte("DISABLE\n")
	emptyLine        = []byte("\n")
)

// New panics if w is nil.
func New(w io.Writer) *API {
	if w == nil {
		panic("writer cannot be nil")
	}
	return &API{w}
}

func (a *API) writeString(s string) error {
	_, err := io.WriteString(a.Writer, s)
	return err
}

// CHART creates a chart or updates its definition.
func (a *API) CHART(opts ChartOpts) {
	_ = a.writeString(opts.line())
}

// DIMENSION adds a dimension to the last defined chart.
func (a *API) DIMENSION(opts DimensionOpts) {
	_ = a.writeString(opts.line())
}

// CLABEL adds a label to the last defined chart. Labels apply after CLABELCOMMIT.
func (a *API) CLABEL(key, value string, source int) {
	_ = a.writeString(command("CLABEL", key, stripQuotes(value), strconv.Itoa(source)))
}

func (a *API) CLABELCOMMIT() {
	_, _ = a.Write(clabelCommitLine)
}

// BEGIN starts a data collection block. msSince is omitted on the first update.
func (a *API) BEGIN(typeID string, id string, msSince int) {
	s := "BEGIN '" + typeID + "." + id + "'"
	if msSince > 0 {
		s += " " + strconv.Itoa(msSince)
	}
	_ = a.writeString(s + "\n")
}

func (a *API) SET(id string, value int64) {
	_ = a.writeString("SET '" + id + "' = " + strconv.FormatInt(value, 10) + "\n")
}

// SETEMPTY marks the dimension as not collected in this update.
func (a *API) SETEMPTY(id string) {
	_ = a.writeString("SET '" + id + "' = \n")
}

func (a *API) END() {
	_, _ = a.Write(endLine)
}

// DISABLE tells netdata not to restart the plugin.
func (a *API) DISABLE() {
	_, _ = a.Write(disableLine)
}

// EMPTYLINE is the keep-alive line.
func (a *API) EMPTYLINE() error {
	_, err := a.Write(emptyLine)
	return err
}
