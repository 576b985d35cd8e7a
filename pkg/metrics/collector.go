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

// Package metrics exposes the fallback lock pool's contention counters as a
// Prometheus collector. Registering it is optional and has no effect on the
// atomic operations themselves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srediag/atomicval/internal/fallback"
)

// Collector implements prometheus.Collector over the process-wide fallback
// lock pool.
type Collector struct {
	acquisitions *prometheus.Desc
	contended    *prometheus.Desc
	shards       *prometheus.Desc
}

// NewCollector builds a collector; register it with a prometheus.Registerer.
func NewCollector() *Collector {
	return &Collector{
		acquisitions: prometheus.NewDesc(
			"atomicval_fallback_acquisitions_total",
			"Shard lock acquisitions by fallback-backed atomic operations.",
			nil, nil,
		),
		contended: prometheus.NewDesc(
			"atomicval_fallback_contended_total",
			"Shard lock acquisitions that had to wait for another holder.",
			nil, nil,
		),
		shards: prometheus.NewDesc(
			"atomicval_fallback_shards",
			"Number of locks in the fallback shard pool.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquisitions
	ch <- c.contended
	ch <- c.shards
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := fallback.Stats()
	ch <- prometheus.MustNewConstMetric(c.acquisitions, prometheus.CounterValue, float64(st.Acquisitions))
	ch <- prometheus.MustNewConstMetric(c.contended, prometheus.CounterValue, float64(st.Contended))
	ch <- prometheus.MustNewConstMetric(c.shards, prometheus.GaugeValue, float64(st.Shards))
}
