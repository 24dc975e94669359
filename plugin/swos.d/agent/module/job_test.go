// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type periodicModule struct {
	*MockModule
	period time.Duration
}

func (m *periodicModule) Period() time.Duration { return m.period }

func newTestJob(mod Module, out io.Writer) *Job {
	return NewJob(JobConfig{
		PluginName:  "swos.d",
		Name:        "local",
		ModuleName:  "swos",
		FullName:    "swos_local",
		Module:      mod,
		Out:         out,
		UpdateEvery: 1,
		Priority:    Priority,
	})
}

func newTestMockModule() *MockModule {
	return &MockModule{
		ChartsFunc: func() *Charts {
			return &Charts{createTestChart("chart1")}
		},
		CollectFunc: func(context.Context) map[string]int64 {
			return map[string]int64{"dim1": 1}
		},
	}
}

func TestNewJob(t *testing.T) {
	job := newTestJob(&MockModule{}, io.Discard)

	assert.Equal(t, "local", job.Name())
	assert.Equal(t, "swos", job.ModuleName())
	assert.Equal(t, "swos_local", job.FullName())
	assert.Equal(t, time.Second, job.Period())
	assert.NotNil(t, job.Logger)
}

func TestJob_AutoDetection(t *testing.T) {
	tests := map[string]struct {
		prepare      func() *MockModule
		wantErr      bool
		wantPanicked bool
	}{
		"success": {
			prepare: newTestMockModule,
		},
		"init fails": {
			prepare: func() *MockModule {
				m := newTestMockModule()
				m.InitFunc = func(context.Context) error { return errors.New("bad config") }
				return m
			},
			wantErr: true,
		},
		"check fails": {
			prepare: func() *MockModule {
				m := newTestMockModule()
				m.CheckFunc = func(context.Context) error { return errors.New("no switch") }
				return m
			},
			wantErr: true,
		},
		"nil charts": {
			prepare: func() *MockModule {
				m := newTestMockModule()
				m.ChartsFunc = nil
				return m
			},
			wantErr: true,
		},
		"init panics": {
			prepare: func() *MockModule {
				m := newTestMockModule()
				m.InitFunc = func(context.Context) error { panic("oops") }
				return m
			},
			wantErr:      true,
			wantPanicked: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			mod := test.prepare()
			job := newTestJob(mod, io.Discard)

			err := job.AutoDetection(context.Background())

			if test.wantErr {
				assert.Error(t, err)
				assert.True(t, mod.CleanupDone)
			} else {
				assert.NoError(t, err)
				assert.False(t, mod.CleanupDone)
			}
			assert.Equal(t, test.wantPanicked, job.Panicked())
		})
	}
}

func TestJob_AutoDetection_ModulePeriod(t *testing.T) {
	tests := map[string]struct {
		period          time.Duration
		wantPeriod      time.Duration
		wantUpdateEvery int
	}{
		"sub second": {period: 500 * time.Millisecond, wantPeriod: 500 * time.Millisecond, wantUpdateEvery: 1},
		"fractional": {period: 2500 * time.Millisecond, wantPeriod: 2500 * time.Millisecond, wantUpdateEvery: 3},
		"whole":      {period: 10 * time.Second, wantPeriod: 10 * time.Second, wantUpdateEvery: 10},
		"not set":    {period: 0, wantPeriod: time.Second, wantUpdateEvery: 1},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			job := newTestJob(&periodicModule{MockModule: newTestMockModule(), period: test.period}, io.Discard)

			require.NoError(t, job.AutoDetection(context.Background()))

			assert.Equal(t, test.wantPeriod, job.Period())
			assert.Equal(t, test.wantUpdateEvery, job.updateEvery)
		})
	}
}

func TestJob_AutoDetection_ModulePeriodRespectsMinUpdateEvery(t *testing.T) {
	tests := map[string]struct {
		period          time.Duration
		minUpdateEvery  int
		wantPeriod      time.Duration
		wantUpdateEvery int
	}{
		"faster than minimum": {period: 100 * time.Millisecond, minUpdateEvery: 1, wantPeriod: time.Second, wantUpdateEvery: 1},
		"fractional raised":   {period: 2500 * time.Millisecond, minUpdateEvery: 5, wantPeriod: 5 * time.Second, wantUpdateEvery: 5},
		"slower than minimum": {period: 10 * time.Second, minUpdateEvery: 5, wantPeriod: 10 * time.Second, wantUpdateEvery: 10},
		"no minimum":          {period: 100 * time.Millisecond, minUpdateEvery: 0, wantPeriod: 100 * time.Millisecond, wantUpdateEvery: 1},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			job := NewJob(JobConfig{
				PluginName:     "swos.d",
				Name:           "local",
				ModuleName:     "swos",
				FullName:       "swos_local",
				Module:         &periodicModule{MockModule: newTestMockModule(), period: test.period},
				Out:            io.Discard,
				UpdateEvery:    5,
				MinUpdateEvery: test.minUpdateEvery,
			})

			require.NoError(t, job.AutoDetection(context.Background()))

			assert.Equal(t, test.wantPeriod, job.Period())
			assert.Equal(t, test.wantUpdateEvery, job.updateEvery)
		})
	}
}

func TestJob_runOnce(t *testing.T) {
	var buf bytes.Buffer
	job := newTestJob(newTestMockModule(), &buf)
	require.NoError(t, job.AutoDetection(context.Background()))

	job.runOnce(context.Background())

	out := buf.String()
	assert.Contains(t, out, "CHART 'swos_local.chart1'")
	assert.Contains(t, out, "CLABEL '_collect_job' 'local' '1'")
	assert.Contains(t, out, "DIMENSION 'dim1'")
	assert.Contains(t, out, "BEGIN 'swos_local.chart1'")
	assert.Contains(t, out, "SET 'dim1' = 1")
	assert.Equal(t, 0, job.buf.Len())
}

func TestJob_runOnce_NoMetrics(t *testing.T) {
	var buf bytes.Buffer
	mod := newTestMockModule()
	mod.CollectFunc = func(context.Context) map[string]int64 { return nil }
	job := newTestJob(mod, &buf)
	require.NoError(t, job.AutoDetection(context.Background()))

	job.runOnce(context.Background())

	out := buf.String()
	assert.Contains(t, out, "CHART 'swos_local.chart1'")
	assert.NotContains(t, out, "BEGIN 'swos_local.chart1'")
}

func TestJob_runOnce_CollectPanics(t *testing.T) {
	var buf bytes.Buffer
	mod := newTestMockModule()
	mod.CollectFunc = func(context.Context) map[string]int64 { panic("oops") }
	job := newTestJob(mod, &buf)
	require.NoError(t, job.AutoDetection(context.Background()))

	job.runOnce(context.Background())

	assert.True(t, job.Panicked())
	assert.Empty(t, buf.String())
}

func TestJob_runOnce_ChartAddedDuringCollect(t *testing.T) {
	var buf bytes.Buffer
	charts := &Charts{createTestChart("chart1")}
	mod := newTestMockModule()
	mod.ChartsFunc = func() *Charts { return charts }
	mod.CollectFunc = func(context.Context) map[string]int64 {
		if !charts.Has("chart2") {
			chart := createTestChart("chart2")
			chart.Dims = Dims{{ID: "dim2"}}
			_ = charts.Add(chart)
		}
		return map[string]int64{"dim1": 1, "dim2": 2}
	}
	job := newTestJob(mod, &buf)
	require.NoError(t, job.AutoDetection(context.Background()))

	job.runOnce(context.Background())

	out := buf.String()
	assert.Contains(t, out, "CHART 'swos_local.chart2'")
	assert.Contains(t, out, "SET 'dim2' = 2")
}

func TestJob_Start(t *testing.T) {
	var collects atomic.Int64
	mod := newTestMockModule()
	mod.CollectFunc = func(context.Context) map[string]int64 {
		collects.Add(1)
		return map[string]int64{"dim1": 1}
	}
	var buf bytes.Buffer
	job := newTestJob(&periodicModule{MockModule: mod, period: 10 * time.Millisecond}, &buf)
	require.NoError(t, job.AutoDetection(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); job.Start(ctx) }()

	require.Eventually(t, func() bool { return collects.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop after cancel")
	}

	assert.True(t, mod.CleanupDone)
	assert.Contains(t, buf.String(), "'obsolete'")
}
