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

/*
Package prober drives the GPU probe across a fleet of hosts.

Every host starts in StateAttempting and ends in exactly one terminal state:

	StateSucceededWithFree  at least one card passed the availability policy
	StateSucceededNoFree    the host answered but no card is free
	StateFailed             any step failed; see Result.Failure

A host attempt is the full sequence dial, three nvidia-smi queries, classify,
close. The attempt is bounded by Prober.Timeout, is never retried, and a
failure in one host never affects another. A nil Policy classifies with
availability.DefaultPolicy.

Hosts are started in declared order with at most Prober.Concurrency in
flight. Results reach the callback strictly in declared order, each one as
soon as it and every earlier host have finished:

	policy := availability.Policy{MinFreeRatio: 0.75, MaxUtilization: 20}
	p := &prober.Prober{
		Dialer:      dialer,
		Policy:      &policy,
		Timeout:     time.Minute,
		Concurrency: 4,
	}

	summary, err := p.Run(ctx, hosts, func(r prober.Result) {
		fmt.Println(report.Block(r.Host, r.Report))
	})

Setting Concurrency to 1 probes the fleet sequentially. An optional Limiter
paces new connections across the whole run. A host waits for its dial slot
on the run context; its Timeout starts once the slot is granted.

Each run is tagged with a random run ID that is attached to every log record
and returned in the Summary.

# Metrics

The package registers the following Prometheus collectors with the default
registry:

	gpuprobe_host_probe_total{state,failure}
	gpuprobe_host_probe_duration_seconds{state}
	gpuprobe_host_free_cards{host}
	gpuprobe_hosts_in_flight
	gpuprobe_run_duration_seconds
*/
package prober
