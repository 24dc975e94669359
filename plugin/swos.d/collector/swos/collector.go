// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/netdata/swosd/pkg/confopt"
	"github.com/netdata/swosd/pkg/web"
	"github.com/netdata/swosd/plugin/swos.d/agent/module"
)

//go:embed "config_schema.json"
var configSchema string

func init() {
	module.Register("swos", module.Creator{
		JobConfigSchema: configSchema,
		Defaults: module.Defaults{
			UpdateEvery: 10,
		},
		Create: func() module.Module { return New() },
		Config: func() any { return &Config{} },
	})
}

func New() *Collector {
	return &Collector{
		Config: Config{
			Address:      defaultAddress,
			PollRate:     0.1,
			WaitInterval: confopt.Duration(time.Second * 5),
			HTTPConfig: web.HTTPConfig{
				RequestConfig: web.RequestConfig{
					Username: "admin",
				},
				ClientConfig: web.ClientConfig{
					Timeout: confopt.Duration(time.Second * 5),
				},
			},
		},
		charts:    baseCharts.Copy(),
		seenPorts: make(map[int]bool),
	}
}

// Config is a swos job configuration. The request URL is derived from Address in Init.
type Config struct {
	Address        string           `yaml:"address" json:"address"`
	PollRate       float64          `yaml:"poll_rate,omitempty" json:"poll_rate"`
	WaitForSwitch  bool             `yaml:"wait_for_switch,omitempty" json:"wait_for_switch"`
	WaitInterval   confopt.Duration `yaml:"wait_interval,omitempty" json:"wait_interval"`
	web.HTTPConfig `yaml:",inline" json:""`
}

type Collector struct {
	module.Base
	Config `yaml:",inline" json:""`

	charts *module.Charts

	client *switchClient
	topo   *topologyCache
	poller *poller

	seenPorts map[int]bool
	mx        map[string]int64
}

func (c *Collector) Configuration() any {
	return c.Config
}

func (c *Collector) Init(context.Context) error {
	if c.PollRate <= 0 {
		return fmt.Errorf("poll_rate must be positive, got %v", c.PollRate)
	}
	if c.WaitForSwitch && c.WaitInterval.Duration() <= 0 {
		return errors.New("wait_interval must be positive when wait_for_switch is enabled")
	}

	c.URL = normalizeAddress(c.Address)

	client, err := newSwitchClient(c.HTTPConfig)
	if err != nil {
		return fmt.Errorf("failed to create http client: %v", err)
	}

	c.client = client
	c.topo = newTopologyCache(client, c.Logger)
	c.poller = newPoller(client, c.topo, c, c.Logger)

	c.Debugf("using address %s", c.URL)
	c.Debugf("using poll period %s", c.Period())
	c.Debugf("using timeout: %s", c.Timeout.Duration())

	return nil
}

// Check blocks until the switch answers when wait_for_switch is enabled.
// Otherwise it does not contact the switch: topology discovery is deferred to the
// first Collect, and an unreachable switch only fails collections until it answers.
func (c *Collector) Check(ctx context.Context) error {
	if !c.WaitForSwitch {
		return nil
	}
	return c.waitForSwitch(ctx)
}

func (c *Collector) Charts() *module.Charts {
	return c.charts
}

func (c *Collector) Collect(ctx context.Context) map[string]int64 {
	mx, err := c.collect(ctx)
	if err != nil {
		return nil
	}

	return mx
}

func (c *Collector) Cleanup(context.Context) {
	if c.client != nil {
		c.client.close()
	}
}

// Period is the collection period derived from poll_rate (Hz).
func (c *Collector) Period() time.Duration {
	if c.PollRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.PollRate)
}

func (c *Collector) waitForSwitch(ctx context.Context) error {
	interval := c.WaitInterval.Duration()

	for {
		_, err := c.topo.identity(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.Warningf("switch %s is not available, retrying in %s: %v", c.URL, interval, err)

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
