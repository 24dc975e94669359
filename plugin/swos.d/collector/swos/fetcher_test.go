// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"context"
	"errors"
)

// mockFetcher serves RawTables from memory and counts requests per endpoint.
type mockFetcher struct {
	tables map[string]rawTable
	errs   map[string]error
	calls  map[string]int
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		tables: map[string]rawTable{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (m *mockFetcher) fetch(_ context.Context, endpoint string) (rawTable, error) {
	m.calls[endpoint]++
	if err := m.errs[endpoint]; err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	tbl, ok := m.tables[endpoint]
	if !ok {
		return nil, &TransportError{Endpoint: endpoint, Err: errors.New("404 not found")}
	}
	return tbl, nil
}

func hexList(values ...string) rawValue {
	return rawValue{list: values, isList: true}
}

func hexScalar(value string) rawValue {
	return rawValue{scalar: value}
}

// fourPortLink is a 4 port switch named A..D with ports 1 and 3 enabled.
func fourPortLink() rawTable {
	return rawTable{
		"nm": hexList("41", "42", "43", "44"),
		"en": hexScalar("0xa"),
	}
}

func identityTable(name string) rawTable {
	return rawTable{"id": hexScalar(name)}
}
