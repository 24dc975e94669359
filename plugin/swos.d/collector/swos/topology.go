// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"context"

	"github.com/netdata/swosd/logger"
)

type cacheState int

const (
	unpopulated cacheState = iota
	populated
)

// cached holds a value that is filled once and then kept for the process lifetime.
type cached[T any] struct {
	state cacheState
	value T
}

// get returns the cached value or calls fill. A failed fill leaves the holder unpopulated.
func (c *cached[T]) get(fill func() (T, error)) (T, error) {
	if c.state == populated {
		return c.value, nil
	}
	v, err := fill()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value, c.state = v, populated
	return c.value, nil
}

type portTopology struct {
	names          []string
	enabled        []bool
	enabledNames   []string
	enabledIndices []int
}

func (p portTopology) numPorts() int { return len(p.names) }

// topologyCache lazily discovers the switch identity and ports.
// There is no invalidation: port changes on the switch are picked up after a restart.
type topologyCache struct {
	*logger.Logger

	client fetcher

	ident cached[string]
	link  cached[portTopology]
}

func newTopologyCache(client fetcher, log *logger.Logger) *topologyCache {
	return &topologyCache{Logger: log, client: client}
}

func (tc *topologyCache) identity(ctx context.Context) (string, error) {
	return tc.ident.get(func() (string, error) {
		tbl, err := tc.client.fetch(ctx, endpointSystem)
		if err != nil {
			return "", err
		}
		id, err := tbl.scalar("id")
		if err != nil {
			return "", err
		}
		name, err := decodeString(id)
		if err != nil {
			return "", withField("id", err)
		}
		tc.Infof("discovered switch '%s'", name)
		return name, nil
	})
}

func (tc *topologyCache) ports(ctx context.Context) (portTopology, error) {
	return tc.link.get(func() (portTopology, error) {
		tbl, err := tc.client.fetch(ctx, endpointLink)
		if err != nil {
			return portTopology{}, err
		}
		topo, err := buildPortTopology(tbl)
		if err != nil {
			return portTopology{}, err
		}
		tc.Infof("discovered %d ports, enabled: %v", topo.numPorts(), topo.enabledNames)
		return topo, nil
	})
}

// buildPortTopology maps bit i of the 'en' mask to port i of 'nm'.
// Mask bits beyond the number of port names are ignored.
func buildPortTopology(tbl rawTable) (portTopology, error) {
	nm, err := tbl.list("nm")
	if err != nil {
		return portTopology{}, err
	}
	en, err := tbl.scalar("en")
	if err != nil {
		return portTopology{}, err
	}

	mask, err := decodeInt(en)
	if err != nil {
		return portTopology{}, withField("en", err)
	}

	topo := portTopology{
		names:   make([]string, len(nm)),
		enabled: make([]bool, len(nm)),
	}

	for i, v := range nm {
		name, err := decodeString(v)
		if err != nil {
			return portTopology{}, withField("nm", err)
		}
		topo.names[i] = name
		topo.enabled[i] = i < 64 && mask&(1<<uint(i)) != 0

		if topo.enabled[i] {
			topo.enabledNames = append(topo.enabledNames, name)
			topo.enabledIndices = append(topo.enabledIndices, i)
		}
	}

	return topo, nil
}
