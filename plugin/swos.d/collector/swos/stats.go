// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"time"
)

// Frame size histogram buckets, in the order SwOS reports them.
const (
	bucket64 = iota
	bucket65to127
	bucket128to255
	bucket256to511
	bucket512to1023
	bucket1024to1518
	bucketJumbo
	numFrameSizeBuckets
)

// FrameSizes is a frame size histogram, one per-port sequence per bucket.
type FrameSizes [numFrameSizeBuckets][]uint64

// StatisticsRecord is one poll cycle worth of enabled port counters.
// Every per-port sequence follows PortNames order. Callers must not modify it.
type StatisticsRecord struct {
	Timestamp   time.Time
	Identity    string
	PortNames   []string
	PortIndices []int

	// bits/s, as reported by the switch.
	RxByteRate, TxByteRate     []uint64
	RxPacketRate, TxPacketRate []uint64

	RxBytes, TxBytes         []uint64
	RxPackets, TxPackets     []uint64
	RxUnicast, TxUnicast     []uint64
	RxBroadcast, TxBroadcast []uint64
	RxMulticast, TxMulticast []uint64

	RxFrameSizes, TxFrameSizes FrameSizes
}

type decodeFunc func(string) (uint64, error)

type counterGroup struct {
	rx, tx string
	decode decodeFunc
	set    func(r *StatisticsRecord, rx, tx []uint64)
}

type longCounterGroup struct {
	rx, tx string
	set    func(r *StatisticsRecord, rx, tx []uint64)
}

var counterGroups = []counterGroup{
	{rx: "rrb", tx: "trb", decode: decodeByteRate, set: func(r *StatisticsRecord, rx, tx []uint64) { r.RxByteRate, r.TxByteRate = rx, tx }},
	{rx: "rrp", tx: "trp", decode: decodePacketRate, set: func(r *StatisticsRecord, rx, tx []uint64) { r.RxPacketRate, r.TxPacketRate = rx, tx }},
	{rx: "rtp", tx: "ttp", decode: decodeInt, set: func(r *StatisticsRecord, rx, tx []uint64) { r.RxPackets, r.TxPackets = rx, tx }},
	{rx: "rup", tx: "tup", decode: decodeInt, set: func(r *StatisticsRecord, rx, tx []uint64) { r.RxUnicast, r.TxUnicast = rx, tx }},
	{rx: "rbp", tx: "tbp", decode: decodeInt, set: func(r *StatisticsRecord, rx, tx []uint64) { r.RxBroadcast, r.TxBroadcast = rx, tx }},
	{rx: "rmp", tx: "tmp", decode: decodeInt, set: func(r *StatisticsRecord, rx, tx []uint64) { r.RxMulticast, r.TxMulticast = rx, tx }},
	histogramGroup(bucket64, "r64", "t64"),
	histogramGroup(bucket65to127, "r65", "t65"),
	histogramGroup(bucket128to255, "r128", "t128"),
	histogramGroup(bucket256to511, "r256", "t256"),
	histogramGroup(bucket512to1023, "r512", "t512"),
	histogramGroup(bucket1024to1518, "r1k", "t1k"),
	histogramGroup(bucketJumbo, "rmax", "tmax"),
}

// The high word key is the low word key with an 'h' suffix.
var longCounterGroups = []longCounterGroup{
	{rx: "rb", tx: "tb", set: func(r *StatisticsRecord, rx, tx []uint64) { r.RxBytes, r.TxBytes = rx, tx }},
}

func histogramGroup(bucket int, rx, tx string) counterGroup {
	return counterGroup{
		rx:     rx,
		tx:     tx,
		decode: decodeInt,
		set: func(r *StatisticsRecord, rxv, txv []uint64) {
			r.RxFrameSizes[bucket], r.TxFrameSizes[bucket] = rxv, txv
		},
	}
}

// enabledTable holds every per-port list of a RawTable filtered down to the enabled ports.
type enabledTable struct {
	raw   rawTable
	lists map[string][]string
}

func filterEnabled(tbl rawTable, ports portTopology) enabledTable {
	et := enabledTable{raw: tbl, lists: make(map[string][]string, len(tbl))}

	highest := -1
	if n := len(ports.enabledIndices); n > 0 {
		highest = ports.enabledIndices[n-1]
	}

	for key, v := range tbl {
		if !v.isList || len(v.list) <= highest {
			continue
		}
		list := make([]string, len(ports.enabledIndices))
		for i, idx := range ports.enabledIndices {
			list[i] = v.list[idx]
		}
		et.lists[key] = list
	}

	return et
}

func (et enabledTable) get(key string) ([]string, error) {
	if list, ok := et.lists[key]; ok {
		return list, nil
	}
	if _, err := et.raw.list(key); err != nil {
		return nil, err
	}
	return nil, &DecodeError{Field: key, Err: errShortList}
}

func (et enabledTable) decode(key string, decode decodeFunc) ([]uint64, error) {
	list, err := et.get(key)
	if err != nil {
		return nil, err
	}
	values := make([]uint64, len(list))
	for i, s := range list {
		if values[i], err = decode(s); err != nil {
			return nil, withField(key, err)
		}
	}
	return values, nil
}

func (et enabledTable) decodeLong(key string) ([]uint64, error) {
	low, err := et.get(key)
	if err != nil {
		return nil, err
	}
	high, err := et.get(key + "h")
	if err != nil {
		return nil, err
	}
	values := make([]uint64, len(low))
	for i := range low {
		if values[i], err = decodeLong(low[i], high[i]); err != nil {
			return nil, withField(key, err)
		}
	}
	return values, nil
}

// assembleStatistics builds a record from a '!stats.b' RawTable.
// Any missing key or undecodable value fails the whole record.
func assembleStatistics(tbl rawTable, identity string, ports portTopology, now time.Time) (*StatisticsRecord, error) {
	et := filterEnabled(tbl, ports)

	rec := &StatisticsRecord{
		Timestamp:   now,
		Identity:    identity,
		PortNames:   ports.enabledNames,
		PortIndices: ports.enabledIndices,
	}

	for _, g := range counterGroups {
		rx, err := et.decode(g.rx, g.decode)
		if err != nil {
			return nil, err
		}
		tx, err := et.decode(g.tx, g.decode)
		if err != nil {
			return nil, err
		}
		g.set(rec, rx, tx)
	}

	for _, g := range longCounterGroups {
		rx, err := et.decodeLong(g.rx)
		if err != nil {
			return nil, err
		}
		tx, err := et.decodeLong(g.tx)
		if err != nil {
			return nil, err
		}
		g.set(rec, rx, tx)
	}

	return rec, nil
}
