/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/atomicval/pkg/atomicval"
	"github.com/srediag/atomicval/pkg/memorder"
	"github.com/srediag/atomicval/pkg/metrics"
)

type big struct {
	A, B, C uint64
}

func TestCollectorShape(t *testing.T) {
	c := metrics.NewCollector()
	assert.Equal(t, 3, testutil.CollectAndCount(c,
		"atomicval_fallback_acquisitions_total",
		"atomicval_fallback_contended_total",
		"atomicval_fallback_shards",
	))
	problems, err := testutil.CollectAndLint(c)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestCollectorObservesFallbackTraffic(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(metrics.NewCollector()))

	gather := func() map[string]float64 {
		fams, err := reg.Gather()
		require.NoError(t, err)
		out := make(map[string]float64)
		for _, fam := range fams {
			for _, m := range fam.GetMetric() {
				out[fam.GetName()] = metricValue(m)
			}
		}
		return out
	}

	before := gather()

	v := atomicval.New[big](big{})
	require.False(t, v.IsLockFree())
	for i := 0; i < 25; i++ {
		v.Store(big{A: uint64(i)}, memorder.SeqCst)
	}

	after := gather()
	assert.GreaterOrEqual(t,
		after["atomicval_fallback_acquisitions_total"],
		before["atomicval_fallback_acquisitions_total"]+25)
	assert.Equal(t, float64(64), after["atomicval_fallback_shards"])
}

func metricValue(m *dto.Metric) float64 {
	if c := m.GetCounter(); c != nil {
		return c.GetValue()
	}
	return m.GetGauge().GetValue()
}
