// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/netdata/swosd/pkg/multipath"
	"github.com/netdata/swosd/plugin/swos.d/agent/module"
)

var reSpace = regexp.MustCompile(`\s+`)

func (a *Agent) loadPluginConfig() config {
	a.Info("loading config file")

	if len(a.ConfDir) == 0 {
		a.Info("config dir not provided, will use defaults")
		return defaultConfig()
	}

	cfgPath := a.Name + ".conf"
	a.Debugf("looking for '%s' in %v", cfgPath, a.ConfDir)

	path, err := a.ConfDir.Find(cfgPath)
	if err != nil || path == "" {
		a.Warning("couldn't find config, will use defaults")
		return defaultConfig()
	}
	a.Debugf("found '%s", path)

	cfg := defaultConfig()
	if err := loadYAML(&cfg, path); err != nil {
		a.Warningf("couldn't load config '%s': %v, will use defaults", path, err)
		return defaultConfig()
	}
	a.Infof("config successfully loaded from '%s'", path)
	return cfg
}

func (a *Agent) loadEnabledModules(cfg config) module.Registry {
	a.Info("loading modules")

	all := a.RunModule == "all" || a.RunModule == ""
	enabled := module.Registry{}

	for name, creator := range a.ModuleRegistry {
		if !all && a.RunModule != name {
			continue
		}
		if all {
			if !cfg.isExplicitlyEnabled(name) && (creator.Disabled || !cfg.isImplicitlyEnabled(name)) {
				a.Infof("'%s' module disabled", name)
				continue
			}
		}
		enabled[name] = creator
	}

	a.Infof("enabled/registered modules: %d/%d", len(enabled), len(a.ModuleRegistry))

	return enabled
}

func (a *Agent) loadModuleConfig(name string) moduleConfig {
	var cfg moduleConfig

	if len(a.ModulesConfDir) == 0 {
		return cfg
	}

	path, err := a.ModulesConfDir.Find(name + ".conf")
	if err != nil {
		if !multipath.IsNotFound(err) {
			a.Warningf("'%s' module config: %v", name, err)
		}
		return cfg
	}

	if err := loadYAML(&cfg, path); err != nil {
		a.Warningf("couldn't load '%s' module config '%s': %v", name, path, err)
		return moduleConfig{}
	}
	a.Debugf("'%s' module config loaded from '%s'", name, path)
	return cfg
}

// buildJobs creates a job for every job in the module config files.
// A module without jobs gets a single job with the module defaults.
func (a *Agent) buildJobs(modules module.Registry) []*module.Job {
	var jobs []*module.Job

	for name, creator := range modules {
		modCfg := a.loadModuleConfig(name)

		jobCfgs := modCfg.Jobs
		if len(jobCfgs) == 0 {
			jobCfgs = []map[string]any{{"name": name}}
		}

		seen := make(map[string]bool)
		for _, jobCfg := range jobCfgs {
			job, err := a.buildJob(name, creator, modCfg, jobCfg)
			if err != nil {
				a.Errorf("'%s' module: %v", name, err)
				continue
			}
			if seen[job.FullName()] {
				a.Warningf("'%s' module: duplicate job name '%s', skipping", name, job.Name())
				continue
			}
			seen[job.FullName()] = true
			jobs = append(jobs, job)
		}
	}

	return jobs
}

func (a *Agent) buildJob(moduleName string, creator module.Creator, modCfg moduleConfig, jobCfg map[string]any) (*module.Job, error) {
	name := moduleName
	if v, ok := jobCfg["name"].(string); ok && v != "" {
		name = reSpace.ReplaceAllString(v, "_")
	}

	mod := creator.Create()
	if err := applyConfig(jobCfg, mod); err != nil {
		return nil, fmt.Errorf("job '%s': %v", name, err)
	}

	fullName := name
	if name != moduleName {
		fullName = moduleName + "_" + name
	}

	updateEvery := firstPositive(intValue(jobCfg["update_every"]), modCfg.UpdateEvery, creator.UpdateEvery, module.UpdateEvery)
	if updateEvery < a.MinUpdateEvery {
		updateEvery = a.MinUpdateEvery
	}

	return module.NewJob(module.JobConfig{
		PluginName:     a.Name,
		Name:           name,
		ModuleName:     moduleName,
		FullName:       fullName,
		Module:         mod,
		Labels:         jobLabels(jobCfg),
		Out:            a.Out,
		UpdateEvery:    updateEvery,
		MinUpdateEvery: a.MinUpdateEvery,
		Priority:       firstPositive(intValue(jobCfg["priority"]), modCfg.Priority, creator.Priority, module.Priority),
	}), nil
}

func applyConfig(jobCfg map[string]any, mod module.Module) error {
	bs, err := yaml.Marshal(jobCfg)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(bs, mod)
}

func jobLabels(jobCfg map[string]any) map[string]string {
	raw, ok := jobCfg["labels"].(map[any]any)
	if !ok {
		return nil
	}
	labels := make(map[string]string, len(raw))
	for k, v := range raw {
		key := strings.TrimSpace(fmt.Sprint(k))
		if key == "" || strings.HasPrefix(key, "_") {
			continue
		}
		labels[key] = fmt.Sprint(v)
	}
	return labels
}

func intValue(v any) int {
	switch v := v.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func loadYAML(conf any, path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(bs, conf); err != nil {
		return err
	}
	return nil
}
