// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"fmt"
	"strconv"

	"github.com/netdata/swosd/plugin/swos.d/agent/module"
)

const (
	prioEnabledPorts = module.Priority + iota
	prioPortBandwidth
	prioPortPacketRate
	prioPortTraffic
	prioPortPackets
	prioPortPacketsByType
	prioPortRxFrameSizes
	prioPortTxFrameSizes
)

var baseCharts = module.Charts{
	enabledPortsChart.Copy(),
}

var enabledPortsChart = module.Chart{
	ID:       "enabled_ports",
	Title:    "Enabled ports",
	Units:    "ports",
	Fam:      "ports",
	Ctx:      "swos.enabled_ports",
	Priority: prioEnabledPorts,
	Dims: module.Dims{
		{ID: "ports_enabled", Name: "enabled"},
	},
}

var portChartsTmpl = module.Charts{
	portBandwidthChartTmpl.Copy(),
	portPacketRateChartTmpl.Copy(),
	portTrafficChartTmpl.Copy(),
	portPacketsChartTmpl.Copy(),
	portPacketsByTypeChartTmpl.Copy(),
	portRxFrameSizesChartTmpl.Copy(),
	portTxFrameSizesChartTmpl.Copy(),
}

var (
	portBandwidthChartTmpl = module.Chart{
		ID:       "port_%d_bandwidth",
		Title:    "Port bandwidth reported by the switch",
		Units:    "bytes/s",
		Fam:      "bandwidth",
		Ctx:      "swos.port_bandwidth",
		Type:     module.Area,
		Priority: prioPortBandwidth,
		Dims: module.Dims{
			{ID: "port_%d_rx_byte_rate", Name: "received"},
			{ID: "port_%d_tx_byte_rate", Name: "sent", Mul: -1},
		},
	}
	portPacketRateChartTmpl = module.Chart{
		ID:       "port_%d_packet_rate",
		Title:    "Port packet rate reported by the switch",
		Units:    "packets/s",
		Fam:      "bandwidth",
		Ctx:      "swos.port_packet_rate",
		Type:     module.Line,
		Priority: prioPortPacketRate,
		Dims: module.Dims{
			{ID: "port_%d_rx_packet_rate", Name: "received"},
			{ID: "port_%d_tx_packet_rate", Name: "sent", Mul: -1},
		},
	}
	portTrafficChartTmpl = module.Chart{
		ID:       "port_%d_traffic",
		Title:    "Port traffic",
		Units:    "bytes/s",
		Fam:      "traffic",
		Ctx:      "swos.port_traffic",
		Type:     module.Area,
		Priority: prioPortTraffic,
		Dims: module.Dims{
			{ID: "port_%d_rx_bytes", Name: "received", Algo: module.Incremental},
			{ID: "port_%d_tx_bytes", Name: "sent", Algo: module.Incremental, Mul: -1},
		},
	}
	portPacketsChartTmpl = module.Chart{
		ID:       "port_%d_packets",
		Title:    "Port packets",
		Units:    "packets/s",
		Fam:      "packets",
		Ctx:      "swos.port_packets",
		Type:     module.Line,
		Priority: prioPortPackets,
		Dims: module.Dims{
			{ID: "port_%d_rx_packets", Name: "received", Algo: module.Incremental},
			{ID: "port_%d_tx_packets", Name: "sent", Algo: module.Incremental, Mul: -1},
		},
	}
	portPacketsByTypeChartTmpl = module.Chart{
		ID:       "port_%d_packets_by_type",
		Title:    "Port packets by type",
		Units:    "packets/s",
		Fam:      "packets",
		Ctx:      "swos.port_packets_by_type",
		Type:     module.Line,
		Priority: prioPortPacketsByType,
		Dims: module.Dims{
			{ID: "port_%d_rx_unicast", Name: "rx_unicast", Algo: module.Incremental},
			{ID: "port_%d_rx_broadcast", Name: "rx_broadcast", Algo: module.Incremental},
			{ID: "port_%d_rx_multicast", Name: "rx_multicast", Algo: module.Incremental},
			{ID: "port_%d_tx_unicast", Name: "tx_unicast", Algo: module.Incremental, Mul: -1},
			{ID: "port_%d_tx_broadcast", Name: "tx_broadcast", Algo: module.Incremental, Mul: -1},
			{ID: "port_%d_tx_multicast", Name: "tx_multicast", Algo: module.Incremental, Mul: -1},
		},
	}
	portRxFrameSizesChartTmpl = frameSizesChartTmpl("rx", "Port received frames by size", prioPortRxFrameSizes)
	portTxFrameSizesChartTmpl = frameSizesChartTmpl("tx", "Port sent frames by size", prioPortTxFrameSizes)
)

func frameSizesChartTmpl(dir, title string, prio int) module.Chart {
	chart := module.Chart{
		ID:       "port_%d_" + dir + "_frame_sizes",
		Title:    title,
		Units:    "frames/s",
		Fam:      "frame sizes",
		Ctx:      "swos.port_" + dir + "_frame_sizes",
		Type:     module.Stacked,
		Priority: prio,
	}
	names := [numFrameSizeBuckets]string{"64", "65-127", "128-255", "256-511", "512-1023", "1024-1518", "jumbo"}
	for b, id := range frameSizeBucketIDs {
		chart.Dims = append(chart.Dims, &module.Dim{
			ID:   "port_%d_" + dir + "_frames_" + id,
			Name: names[b],
			Algo: module.Incremental,
		})
	}
	return chart
}

func (c *Collector) addPortCharts(device, port string, idx int) {
	charts := portChartsTmpl.Copy()

	for _, chart := range *charts {
		chart.ID = fmt.Sprintf(chart.ID, idx)
		chart.Labels = []module.Label{
			{Key: "device", Value: device},
			{Key: "port", Value: port},
			{Key: "port_index", Value: strconv.Itoa(idx)},
		}
		for _, dim := range chart.Dims {
			dim.ID = fmt.Sprintf(dim.ID, idx)
		}
	}

	if err := c.charts.Add(*charts...); err != nil {
		c.Warning(err)
	}
}
