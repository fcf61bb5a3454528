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

// Package defaults provides centralized configuration constants for the prober.
//
// This package defines timeout values, concurrency limits, and availability
// thresholds used across the codebase. Centralizing these values ensures
// consistency and makes tuning easier.
//
// # Categories
//
//   - Probe timeouts: per-host deadline, SSH dial, single remote command
//   - Fleet limits: parallel hosts, dial pacing
//   - Availability thresholds: free memory ratio, utilization ceiling
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/gpu-fleet-probe/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ProbeHostTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
// The host deadline bounds the whole attempt (dial plus three queries) and
// must stay larger than the dial timeout plus one command timeout, otherwise
// slow but healthy hosts are reported as timed out.
package defaults
