// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"fmt"
)

func defaultConfig() config {
	return config{
		Enabled:    true,
		DefaultRun: true,
		Modules:    nil,
	}
}

type config struct {
	Enabled    bool            `yaml:"enabled"`
	DefaultRun bool            `yaml:"default_run"`
	Modules    map[string]bool `yaml:"modules"`
}

func (c *config) String() string {
	return fmt.Sprintf("enabled '%v', default_run '%v'", c.Enabled, c.DefaultRun)
}

func (c *config) isExplicitlyEnabled(moduleName string) bool {
	return c.isEnabled(moduleName, true)
}

func (c *config) isImplicitlyEnabled(moduleName string) bool {
	return c.isEnabled(moduleName, false)
}

func (c *config) isEnabled(moduleName string, explicit bool) bool {
	if enabled, ok := c.Modules[moduleName]; ok {
		return enabled
	}
	if explicit {
		return false
	}
	return c.DefaultRun
}

// UnmarshalYAML also accepts module switches set at the top level, next to 'enabled'.
func (c *config) UnmarshalYAML(unmarshal func(any) error) error {
	type plain config
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	var m map[string]any
	if err := unmarshal(&m); err != nil {
		return err
	}

	for key, value := range m {
		switch key {
		case "enabled", "default_run", "modules":
			continue
		}
		b, ok := value.(bool)
		if !ok {
			continue
		}
		if c.Modules == nil {
			c.Modules = make(map[string]bool)
		}
		c.Modules[key] = b
	}
	return nil
}

// moduleConfig is a module configuration file: job defaults and a list of jobs.
type moduleConfig struct {
	UpdateEvery int              `yaml:"update_every"`
	Priority    int              `yaml:"priority"`
	Jobs        []map[string]any `yaml:"jobs"`
}
