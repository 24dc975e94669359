// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/netdata/swosd/logger"
	"github.com/netdata/swosd/pkg/netdataapi"
)

var ndInternalMonitoringDisabled = os.Getenv("NETDATA_INTERNALS_MONITORING") == "NO"

func newRuntimeChart(pluginName string) *Chart {
	return &Chart{
		typ:      "netdata",
		Title:    "Execution time",
		Units:    "ms",
		Fam:      pluginName,
		Ctx:      "netdata.swos_plugin_execution_time",
		Priority: 145000,
		Dims: Dims{
			{ID: "time"},
		},
	}
}

type JobConfig struct {
	PluginName  string
	Name        string
	ModuleName  string
	FullName    string
	Module      Module
	Labels      map[string]string
	Out         io.Writer
	UpdateEvery int
	Priority    int
	IsStock     bool

	// MinUpdateEvery is the netdata data collection frequency, in seconds.
	// A Periodic module period is never shorter.
	MinUpdateEvery int
}

func NewJob(cfg JobConfig) *Job {
	var buf bytes.Buffer

	if cfg.UpdateEvery == 0 {
		cfg.UpdateEvery = UpdateEvery
	}

	j := &Job{
		pluginName:  cfg.PluginName,
		name:        cfg.Name,
		moduleName:  cfg.ModuleName,
		fullName:    cfg.FullName,
		updateEvery: cfg.UpdateEvery,
		minPeriod:   time.Duration(cfg.MinUpdateEvery) * time.Second,
		period:      time.Duration(cfg.UpdateEvery) * time.Second,
		priority:    cfg.Priority,
		isStock:     cfg.IsStock,
		module:      cfg.Module,
		labels:      cfg.Labels,
		out:         cfg.Out,
		runChart:    newRuntimeChart(cfg.PluginName),
		buf:         &buf,
		api:         netdataapi.New(&buf),
	}

	log := logger.New().With(
		slog.String("collector", j.ModuleName()),
		slog.String("job", j.Name()),
	)

	j.Logger = log
	if j.module != nil {
		j.module.GetBase().Logger = log
	}

	return j
}

// Job represents a job. It's a module wrapper.
type Job struct {
	pluginName string
	name       string
	moduleName string
	fullName   string

	updateEvery int
	minPeriod   time.Duration
	period      time.Duration
	priority    int
	labels      map[string]string

	*logger.Logger

	isStock bool

	module Module

	initialized bool
	panicked    bool

	runChart *Chart
	charts   *Charts
	out      io.Writer
	buf      *bytes.Buffer
	api      *netdataapi.API

	prevRun time.Time
}

// FullName returns job full name.
func (j *Job) FullName() string {
	return j.fullName
}

// ModuleName returns job module name.
func (j *Job) ModuleName() string {
	return j.moduleName
}

// Name returns job name.
func (j *Job) Name() string {
	return j.name
}

// Panicked returns 'panicked' flag value.
func (j *Job) Panicked() bool {
	return j.panicked
}

// Period returns the data collection interval.
func (j *Job) Period() time.Duration {
	return j.period
}

func (j *Job) Configuration() any {
	return j.module.Configuration()
}

// AutoDetection invokes init, check and postCheck. It handles panic.
func (j *Job) AutoDetection(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic %v", r)
			j.panicked = true

			j.Errorf("PANIC %v", r)
			if logger.Level.Enabled(slog.LevelDebug) {
				j.Errorf("STACK: %s", debug.Stack())
			}
		}
		if err != nil {
			j.module.Cleanup(context.Background())
		}
	}()

	if j.isStock {
		j.Mute()
	}

	if err = j.init(ctx); err != nil {
		j.Errorf("init failed: %v", err)
		j.Unmute()
		return err
	}

	if err = j.check(ctx); err != nil {
		j.Errorf("check failed: %v", err)
		j.Unmute()
		return err
	}

	j.Unmute()
	j.Info("check success")

	if err = j.postCheck(); err != nil {
		j.Errorf("postCheck failed: %v", err)
		return err
	}

	return nil
}

// Start runs the job main loop until ctx is done.
// A collection that overruns the period delays the next one, runs never overlap.
func (j *Job) Start(ctx context.Context) {
	j.Infof("started, data collection interval %s", j.period)
	defer func() { j.Info("stopped") }()

	tk := time.NewTicker(j.period)
	defer tk.Stop()

	j.runOnce(ctx)

LOOP:
	for {
		select {
		case <-ctx.Done():
			break LOOP
		case <-tk.C:
			if ctx.Err() != nil {
				break LOOP
			}
			j.runOnce(ctx)
		}
	}

	j.module.Cleanup(context.Background())
	j.Cleanup()
}

func (j *Job) Cleanup() {
	j.buf.Reset()

	if j.runChart.created {
		j.runChart.MarkRemove()
		j.createChart(j.runChart)
	}
	if j.charts != nil {
		for _, chart := range *j.charts {
			if chart.created {
				chart.MarkRemove()
				j.createChart(chart)
			}
		}
	}

	if j.buf.Len() > 0 {
		_, _ = io.Copy(j.out, j.buf)
	}
}

func (j *Job) init(ctx context.Context) error {
	if j.initialized {
		return nil
	}

	if err := j.module.Init(ctx); err != nil {
		return err
	}

	j.initialized = true

	return nil
}

func (j *Job) check(ctx context.Context) error {
	return j.module.Check(ctx)
}

func (j *Job) postCheck() error {
	if j.charts = j.module.Charts(); j.charts == nil {
		j.Error("nil charts")
		return errors.New("nil charts")
	}
	if err := checkCharts(*j.charts...); err != nil {
		j.Errorf("charts check: %v", err)
		return err
	}

	if m, ok := j.module.(Periodic); ok && m.Period() > 0 {
		j.period = m.Period()
		if j.period < j.minPeriod {
			j.Warningf("collection period %s is shorter than the netdata update every %s, using the latter", j.period, j.minPeriod)
			j.period = j.minPeriod
		}
		j.updateEvery = max(1, int((j.period+time.Second-1)/time.Second))
	}

	return nil
}

func (j *Job) runOnce(ctx context.Context) {
	curTime := time.Now()
	sinceLastRun := calcSinceLastRun(curTime, j.prevRun)
	j.prevRun = curTime

	metrics := j.collect(ctx)

	if j.panicked {
		return
	}

	j.processMetrics(metrics, curTime, sinceLastRun)

	_, _ = io.Copy(j.out, j.buf)
	j.buf.Reset()
}

func (j *Job) collect(ctx context.Context) (result map[string]int64) {
	j.panicked = false
	defer func() {
		if r := recover(); r != nil {
			j.panicked = true
			j.Errorf("PANIC: %v", r)
			if logger.Level.Enabled(slog.LevelDebug) {
				j.Errorf("STACK: %s", debug.Stack())
			}
		}
	}()
	return j.module.Collect(ctx)
}

func (j *Job) processMetrics(metrics map[string]int64, startTime time.Time, sinceLastRun int) bool {
	if !ndInternalMonitoringDisabled && !j.runChart.created {
		j.runChart.ID = fmt.Sprintf("execution_time_of_%s", j.FullName())
		j.createChart(j.runChart)
	}

	elapsed := time.Since(startTime).Milliseconds()

	var i, updated int
	for _, chart := range *j.charts {
		if !chart.created {
			j.createChart(chart)
		}
		if chart.remove {
			continue
		}
		(*j.charts)[i] = chart
		i++
		if len(metrics) == 0 || chart.Obsolete {
			continue
		}
		if j.updateChart(chart, metrics, sinceLastRun) {
			updated++
		}
	}
	*j.charts = (*j.charts)[:i]

	if updated == 0 {
		return false
	}
	if !ndInternalMonitoringDisabled {
		j.updateChart(j.runChart, map[string]int64{"time": elapsed}, sinceLastRun)
	}

	return true
}

func (j *Job) createChart(chart *Chart) {
	defer func() { chart.created = true }()

	if chart.Priority == 0 {
		chart.Priority = j.priority
		j.priority++
	}
	j.api.CHART(netdataapi.ChartOpts{
		TypeID:      getChartType(chart, j),
		ID:          chart.ID,
		Name:        chart.OverID,
		Title:       chart.Title,
		Units:       chart.Units,
		Family:      chart.Fam,
		Context:     chart.Ctx,
		ChartType:   chart.Type.String(),
		Priority:    chart.Priority,
		UpdateEvery: j.updateEvery,
		Options:     chart.Opts.String(),
		Plugin:      j.pluginName,
		Module:      j.moduleName,
	})

	if chart.Obsolete {
		_ = j.api.EMPTYLINE()
		return
	}

	seen := make(map[string]bool)
	for _, l := range chart.Labels {
		if l.Key != "" {
			seen[l.Key] = true
			ls := l.Source
			if ls == 0 {
				ls = LabelSourceAuto
			}
			j.api.CLABEL(l.Key, l.Value, ls)
		}
	}
	for k, v := range j.labels {
		if !seen[k] {
			j.api.CLABEL(k, v, LabelSourceConf)
		}
	}
	j.api.CLABEL("_collect_job", j.Name(), LabelSourceAuto)
	j.api.CLABELCOMMIT()

	for _, dim := range chart.Dims {
		j.api.DIMENSION(netdataapi.DimensionOpts{
			ID:         firstNotEmpty(dim.Name, dim.ID),
			Name:       dim.Name,
			Algorithm:  dim.Algo.String(),
			Multiplier: handleZero(dim.Mul),
			Divisor:    handleZero(dim.Div),
			Options:    dim.DimOpts.String(),
		})
	}
	_ = j.api.EMPTYLINE()
}

func (j *Job) updateChart(chart *Chart, collected map[string]int64, sinceLastRun int) bool {
	if !chart.updated {
		sinceLastRun = 0
	}

	j.api.BEGIN(getChartType(chart, j), chart.ID, sinceLastRun)

	var updated int
	for _, dim := range chart.Dims {
		if v, ok := collected[dim.ID]; !ok {
			j.api.SETEMPTY(firstNotEmpty(dim.Name, dim.ID))
		} else {
			j.api.SET(firstNotEmpty(dim.Name, dim.ID), v)
			updated++
		}
	}
	j.api.END()

	chart.updated = updated > 0
	return chart.updated
}

func getChartType(chart *Chart, j *Job) string {
	if chart.typ == "" {
		chart.typ = j.FullName()
	}
	return chart.typ
}

func calcSinceLastRun(curTime, prevRun time.Time) int {
	if prevRun.IsZero() {
		return 0
	}
	return int((curTime.UnixNano() - prevRun.UnixNano()) / 1000)
}

func firstNotEmpty(val1, val2 string) string {
	if val1 != "" {
		return val1
	}
	return val2
}

func handleZero(v int) int {
	if v == 0 {
		return 1
	}
	return v
}
