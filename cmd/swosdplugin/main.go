// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/net/http/httpproxy"

	"github.com/netdata/swosd/logger"
	"github.com/netdata/swosd/pkg/buildinfo"
	"github.com/netdata/swosd/pkg/cli"
	"github.com/netdata/swosd/pkg/executable"
	"github.com/netdata/swosd/pkg/multipath"
	"github.com/netdata/swosd/plugin/swos.d/agent"
	_ "github.com/netdata/swosd/plugin/swos.d/collector"
)

var (
	cd, _       = os.Getwd()
	name        = "swos.d"
	userDir     = os.Getenv("NETDATA_USER_CONFIG_DIR")
	stockDir    = os.Getenv("NETDATA_STOCK_CONFIG_DIR")
	varLibDir   = os.Getenv("NETDATA_LIB_DIR")
	procDir     = executable.Directory
	envLogLevel = strings.ToLower(os.Getenv("NETDATA_LOG_LEVEL"))
)

func init() {
	// https://github.com/netdata/netdata/issues/8949#issuecomment-638294959
	if v := os.Getenv("TZ"); strings.HasPrefix(v, ":") {
		_ = os.Unsetenv("TZ")
	}
}

func confDir(opts *cli.Option) multipath.MultiPath {
	if len(opts.ConfDir) > 0 {
		return opts.ConfDir
	}
	if userDir != "" || stockDir != "" {
		return multipath.New(userDir, stockDir)
	}
	if buildinfo.UserConfigDir != "" || buildinfo.StockConfigDir != "" {
		return multipath.New(buildinfo.UserConfigDir, buildinfo.StockConfigDir)
	}
	return multipath.New(
		filepath.Join(cd, "/../../../../etc/netdata"),
		filepath.Join(cd, "/../../../../usr/lib/netdata/conf.d"),
		filepath.Join(procDir, "/../../../../etc/netdata"),
		filepath.Join(procDir, "/../../../../usr/lib/netdata/conf.d"),
		filepath.Join(cd, "/../../config"),
	)
}

func modulesConfDir(opts *cli.Option) (mpath multipath.MultiPath) {
	for _, dir := range confDir(opts) {
		mpath = append(mpath, filepath.Join(dir, name))
	}
	return mpath
}

func lockDir() string {
	if varLibDir == "" {
		return ""
	}
	dir := filepath.Join(varLibDir, "lock")
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return ""
	}
	return dir
}

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, args ...interface{}) {}))

	opts := parseCLI()

	if opts.Version {
		fmt.Printf("%s.plugin, version: %s\n", executable.Name, buildinfo.Version)
		return
	}

	if envLogLevel != "" && !logger.Level.SetByName(envLogLevel) {
		logger.Warningf("unknown NETDATA_LOG_LEVEL '%s', ignored", envLogLevel)
	}
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	a := agent.New(agent.Config{
		Name:           name,
		ConfDir:        confDir(opts),
		ModulesConfDir: modulesConfDir(opts),
		RunModule:      opts.Module,
		MinUpdateEvery: opts.UpdateEvery,
		LockDir:        lockDir(),
	})

	a.Infof("plugin: name=%s, version=%s", a.Name, buildinfo.Version)
	if u, err := user.Current(); err == nil {
		a.Debugf("current user: name=%s, uid=%s", u.Username, u.Uid)
	}

	proxyCfg := httpproxy.FromEnvironment()
	a.Infof("env HTTP_PROXY '%s', HTTPS_PROXY '%s'", proxyCfg.HTTPProxy, proxyCfg.HTTPSProxy)

	a.Infof("directories → config: %s | modules: %s | lock: '%s'", a.ConfDir, a.ModulesConfDir, a.LockDir)

	a.Run()
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args)
	if err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	return opt
}
