// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prober

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hostProbeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gpuprobe_host_probe_total",
			Help: "Total number of host probe attempts by terminal state",
		},
		[]string{"state", "failure"}, // failure is empty unless state is failed
	)

	hostProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gpuprobe_host_probe_duration_seconds",
			Help:    "Time taken to probe a single host, from dial to close",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"state"},
	)

	hostFreeCards = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gpuprobe_host_free_cards",
			Help: "Number of free GPU cards found on a host in the last run",
		},
		[]string{"host"},
	)

	hostsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gpuprobe_hosts_in_flight",
			Help: "Number of hosts currently being probed",
		},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gpuprobe_run_duration_seconds",
			Help:    "Time taken to probe the whole fleet",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)
)
