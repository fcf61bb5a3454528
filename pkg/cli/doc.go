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

// Package cli implements the gpuprobe command line.
//
// # Commands
//
// probe - Probe the fleet for free GPU cards:
//
//	gpuprobe probe -c fleet.yaml [--output digest.txt] [--digest-all]
//
// Connects to every host over SSH, runs the three nvidia-smi queries and
// prints one status block per host in inventory order, framed by the run
// start time, end time and execution time. The digest of free cards is
// written to --output when set.
//
// hosts - List the resolved hosts:
//
//	gpuprobe hosts -c fleet.yaml
//
// # Global Flags
//
//	--log-level    Log verbosity: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Inventory Flags
//
//	--config, -c   Inventory file, YAML or JSON
//	--host         name=address, replaces the inventory host list (repeatable)
//	--user, -u     Remote login name
//	--key, -i      Private key file
//	--known-hosts  known_hosts file (default: ~/.ssh/known_hosts)
//	--insecure-ignore-host-key
//	               Accept any host key
//
// Flags that are set win over the inventory file.
//
// # Environment Variables
//
//	LOG_LEVEL        Logging verbosity (debug, info, warn, error)
//	GPUPROBE_CONFIG  Inventory file path
//	GPUPROBE_USER    Remote login name
//	GPUPROBE_KEY     Private key file
//
// # Exit Codes
//
//	0  Success, including runs where some hosts were unreachable
//	1  General error (invalid configuration, unreadable inventory, output
//	   failure) or, with --fail-on-unavailable, at least one failed host
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags, see
// package version.
package cli
