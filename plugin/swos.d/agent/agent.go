// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/netdata/swosd/logger"
	"github.com/netdata/swosd/pkg/multipath"
	"github.com/netdata/swosd/pkg/netdataapi"
	"github.com/netdata/swosd/pkg/safewriter"
	"github.com/netdata/swosd/plugin/swos.d/agent/module"

	"github.com/mattn/go-isatty"
	"github.com/sourcegraph/conc"
)

var isTerminal = isatty.IsTerminal(os.Stdout.Fd())

// Config is an Agent configuration.
type Config struct {
	Name           string
	ConfDir        []string
	ModulesConfDir []string
	ModuleRegistry module.Registry
	RunModule      string
	MinUpdateEvery int
	LockDir        string
}

// Agent loads the configuration, builds a job per configured switch and runs them.
type Agent struct {
	*logger.Logger

	Name           string
	ConfDir        multipath.MultiPath
	ModulesConfDir multipath.MultiPath
	RunModule      string
	MinUpdateEvery int
	LockDir        string
	ModuleRegistry module.Registry
	Out            io.Writer

	api         *netdataapi.API
	reload      chan struct{}
	settleDelay time.Duration
}

// New creates a new Agent.
func New(cfg Config) *Agent {
	reg := cfg.ModuleRegistry
	if reg == nil {
		reg = module.DefaultRegistry
	}
	return &Agent{
		Logger: logger.New().With(
			slog.String("component", "agent"),
		),
		Name:           cfg.Name,
		ConfDir:        cfg.ConfDir,
		ModulesConfDir: cfg.ModulesConfDir,
		RunModule:      cfg.RunModule,
		MinUpdateEvery: cfg.MinUpdateEvery,
		LockDir:        cfg.LockDir,
		ModuleRegistry: reg,
		Out:            safewriter.Stdout,
		api:            netdataapi.New(safewriter.Stdout),
		reload:         make(chan struct{}, 1),
		settleDelay:    time.Second * 2,
	}
}

// Run starts the Agent. It returns only by exiting the process.
func (a *Agent) Run() {
	go a.keepAlive()
	serve(a)
}

func serve(a *Agent) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	for {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		go func() { defer close(done); a.run(ctx) }()

		var exit bool
		select {
		case <-a.reload:
		case sig := <-ch:
			switch sig {
			case syscall.SIGHUP:
				a.Infof("received %s signal (%d). Restarting running instance", sig, sig)
			default:
				a.Infof("received %s signal (%d). Terminating...", sig, sig)
				exit = true
			}
		}

		cancel()

		timeout := time.Second * 10
		select {
		case <-time.After(timeout):
			a.Errorf("stopping all jobs timed out after %s. Exiting...", timeout)
			os.Exit(0)
		case <-done:
		}

		if exit {
			os.Exit(0)
		}

		time.Sleep(time.Second)
	}
}

func (a *Agent) run(ctx context.Context) {
	a.Info("instance is started")
	defer func() { a.Info("instance is stopped") }()

	cfg := a.loadPluginConfig()
	a.Infof("using config: %s", cfg.String())

	if !cfg.Enabled {
		a.Info("plugin is disabled in the configuration file, exiting...")
		a.disable()
		return
	}

	enabledModules := a.loadEnabledModules(cfg)
	if len(enabledModules) == 0 {
		a.Info("no modules to run")
		a.disable()
		return
	}

	jobs := a.buildJobs(enabledModules)
	if len(jobs) == 0 {
		a.Info("no jobs to run")
		a.disable()
		return
	}

	var locker *jobLocker
	if a.LockDir != "" {
		locker = newJobLocker(a.LockDir)
		defer locker.unlockAll()
	}

	var wg conc.WaitGroup

	names := enabledModules.Names()
	hash := snapshotHash(a.takeSnapshot(cfg, names))
	wg.Go(func() { a.watchConfig(ctx, names, hash) })

	for _, job := range jobs {
		if locker != nil {
			ok, err := locker.lock(job.FullName())
			if err != nil {
				a.Warningf("job '%s': couldn't acquire lock: %v", job.FullName(), err)
			} else if !ok {
				a.Infof("job '%s' is served by another process, skipping", job.FullName())
				continue
			}
		}
		wg.Go(func() {
			if locker != nil {
				defer locker.unlock(job.FullName())
			}
			if err := job.AutoDetection(ctx); err != nil {
				a.Errorf("job '%s' autodetection failed: %v", job.FullName(), err)
				return
			}
			job.Start(ctx)
		})
	}
	wg.Wait()

	<-ctx.Done()
}

func (a *Agent) disable() {
	if isTerminal {
		os.Exit(0)
	}
	a.api.DISABLE()
}

func (a *Agent) keepAlive() {
	if isTerminal {
		return
	}

	tk := time.NewTicker(time.Second)
	defer tk.Stop()

	var n int
	for range tk.C {
		if err := a.api.EMPTYLINE(); err != nil {
			a.Infof("keepAlive: %v", err)
			n++
		} else {
			n = 0
		}
		if n == 3 {
			a.Info("too many keepAlive errors. Terminating...")
			os.Exit(0)
		}
	}
}
