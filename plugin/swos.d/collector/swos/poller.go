// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"context"
	"fmt"
	"time"

	"github.com/netdata/swosd/logger"
)

// Sink accepts one record per successful poll cycle.
type Sink interface {
	Emit(rec *StatisticsRecord)
}

type pollState int

const (
	stateDiscovering pollState = iota
	statePolling
)

func (s pollState) String() string {
	switch s {
	case stateDiscovering:
		return "discovering"
	case statePolling:
		return "polling"
	default:
		return fmt.Sprintf("pollState(%d)", int(s))
	}
}

type poller struct {
	*logger.Logger

	client fetcher
	topo   *topologyCache
	sink   Sink
	now    func() time.Time

	state pollState
}

func newPoller(client fetcher, topo *topologyCache, sink Sink, log *logger.Logger) *poller {
	return &poller{
		Logger: log,
		client: client,
		topo:   topo,
		sink:   sink,
		now:    time.Now,
		state:  stateDiscovering,
	}
}

// tick runs one poll cycle. A failed cycle is logged and emits nothing.
func (p *poller) tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec, err := p.cycle(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.Errorf("%s: %v", p.state, err)
		}
		return err
	}

	if p.state == stateDiscovering {
		p.state = statePolling
		p.Infof("switch '%s' discovered, polling %d enabled ports", rec.Identity, len(rec.PortNames))
	}

	p.sink.Emit(rec)

	return nil
}

func (p *poller) cycle(ctx context.Context) (*StatisticsRecord, error) {
	ports, err := p.topo.ports(ctx)
	if err != nil {
		return nil, err
	}
	identity, err := p.topo.identity(ctx)
	if err != nil {
		return nil, err
	}

	tbl, err := p.client.fetch(ctx, endpointStats)
	if err != nil {
		return nil, err
	}

	rec, err := assembleStatistics(tbl, identity, ports, p.now())
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", endpointStats, err)
	}

	return rec, nil
}
