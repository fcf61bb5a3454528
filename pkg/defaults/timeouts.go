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

package defaults

import "time"

// Probe timeouts for remote GPU queries.
const (
	// ProbeHostTimeout bounds one host attempt: dial, three queries, close.
	ProbeHostTimeout = 60 * time.Second

	// SSHDialTimeout is the timeout for TCP connect plus SSH handshake.
	SSHDialTimeout = 10 * time.Second

	// RemoteCommandTimeout bounds a single nvidia-smi invocation.
	// Parent context deadlines win when shorter.
	RemoteCommandTimeout = 30 * time.Second
)

// Fleet limits.
const (
	// ProbeConcurrency is the default number of hosts probed in parallel.
	ProbeConcurrency = 4

	// MaxProbeConcurrency caps the configurable parallelism.
	MaxProbeConcurrency = 64

	// SSHPort is used when a host address carries no port.
	SSHPort = 22
)

// Availability thresholds. Both comparisons are strict.
const (
	// MinFreeMemoryRatio is the free/total memory ratio a card must exceed.
	MinFreeMemoryRatio = 0.5

	// MaxUtilizationPercent is the GPU utilization a card must stay below.
	MaxUtilizationPercent = 50
)
