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

// Package report renders probe outcomes as console text.
//
// Each host produces one status block, printed as soon as its probe
// finishes:
//
//	2 cards available in ML-15 (10.2.101.223)
//	ML-15 (10.2.101.223) Card 0: Available Memory 81000/81559; GPU Utilization 0%
//	ML-15 (10.2.101.223) Card 3: Available Memory 80211/81559; GPU Utilization 4%
//
// Hosts without a free card print "No cards free in ..." and hosts that
// failed at any step print "Unable to connect to ...", regardless of which
// step failed.
//
// The Digest accumulates the fleet-wide summary that starts with
// "The below GPUs are available:". In DigestModeAvailable it carries the
// free card lines and the failure lines but skips hosts that had no free
// cards. DigestModeComplete adds those hosts as well.
package report
