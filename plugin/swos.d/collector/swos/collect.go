// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"context"
	"fmt"
	"math"
)

var frameSizeBucketIDs = [numFrameSizeBuckets]string{
	bucket64:         "64",
	bucket65to127:    "65_127",
	bucket128to255:   "128_255",
	bucket256to511:   "256_511",
	bucket512to1023:  "512_1023",
	bucket1024to1518: "1024_1518",
	bucketJumbo:      "jumbo",
}

func (c *Collector) collect(ctx context.Context) (map[string]int64, error) {
	c.mx = nil

	if err := c.poller.tick(ctx); err != nil {
		return nil, err
	}

	return c.mx, nil
}

// Emit receives the record of a successful poll cycle.
func (c *Collector) Emit(rec *StatisticsRecord) {
	for i, idx := range rec.PortIndices {
		if !c.seenPorts[idx] {
			c.seenPorts[idx] = true
			c.addPortCharts(rec.Identity, rec.PortNames[i], idx)
		}
	}

	c.mx = recordToMetrics(rec)
}

func recordToMetrics(rec *StatisticsRecord) map[string]int64 {
	mx := map[string]int64{
		"ports_enabled": int64(len(rec.PortIndices)),
	}

	for i, idx := range rec.PortIndices {
		px := fmt.Sprintf("port_%d_", idx)

		mx[px+"rx_byte_rate"] = toMetric(bitsToBytes(rec.RxByteRate[i]))
		mx[px+"tx_byte_rate"] = toMetric(bitsToBytes(rec.TxByteRate[i]))
		mx[px+"rx_packet_rate"] = toMetric(rec.RxPacketRate[i])
		mx[px+"tx_packet_rate"] = toMetric(rec.TxPacketRate[i])

		mx[px+"rx_bytes"] = toMetric(rec.RxBytes[i])
		mx[px+"tx_bytes"] = toMetric(rec.TxBytes[i])
		mx[px+"rx_packets"] = toMetric(rec.RxPackets[i])
		mx[px+"tx_packets"] = toMetric(rec.TxPackets[i])

		mx[px+"rx_unicast"] = toMetric(rec.RxUnicast[i])
		mx[px+"tx_unicast"] = toMetric(rec.TxUnicast[i])
		mx[px+"rx_broadcast"] = toMetric(rec.RxBroadcast[i])
		mx[px+"tx_broadcast"] = toMetric(rec.TxBroadcast[i])
		mx[px+"rx_multicast"] = toMetric(rec.RxMulticast[i])
		mx[px+"tx_multicast"] = toMetric(rec.TxMulticast[i])

		for b, id := range frameSizeBucketIDs {
			mx[px+"rx_frames_"+id] = toMetric(rec.RxFrameSizes[b][i])
			mx[px+"tx_frames_"+id] = toMetric(rec.TxFrameSizes[b][i])
		}
	}

	return mx
}

// toMetric caps counters at the largest value the plugins protocol can carry.
func toMetric(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
