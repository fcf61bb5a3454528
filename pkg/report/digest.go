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

package report

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/inventory"
)

// DigestHeader opens every digest.
const DigestHeader = "The below GPUs are available:\n\n"

// DigestMode selects which hosts contribute lines to a Digest.
type DigestMode string

const (
	// DigestModeAvailable lists free cards and failed hosts only.
	DigestModeAvailable DigestMode = "available"

	// DigestModeComplete also lists reachable hosts without a free card.
	DigestModeComplete DigestMode = "complete"
)

// ParseDigestMode returns the mode named by s. An empty string selects
// DigestModeAvailable.
func ParseDigestMode(s string) (DigestMode, error) {
	switch DigestMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DigestModeAvailable:
		return DigestModeAvailable, nil
	case DigestModeComplete:
		return DigestModeComplete, nil
	default:
		return "", fmt.Errorf("unknown digest mode %q", s)
	}
}

// Digest accumulates the fleet summary in host order. It is not safe for
// concurrent use; callers add hosts from the ordered result stream.
type Digest struct {
	mode DigestMode
	b    strings.Builder
}

// NewDigest returns an empty digest holding only the header.
func NewDigest(mode DigestMode) *Digest {
	if mode == "" {
		mode = DigestModeAvailable
	}
	d := &Digest{mode: mode}
	d.b.WriteString(DigestHeader)
	return d
}

// Mode returns the digest mode.
func (d *Digest) Mode() DigestMode { return d.mode }

// Add appends the lines for host. A nil report means the host failed.
func (d *Digest) Add(host inventory.Host, r *HostReport) {
	switch {
	case r == nil:
		d.line(Unavailable(host))
	case r.FreeCardCount > 0:
		for _, l := range r.DetailLines {
			d.line(l)
		}
	case d.mode == DigestModeComplete:
		d.line(NoneFree(host))
	}
}

func (d *Digest) line(s string) {
	d.b.WriteString(s)
	d.b.WriteByte('\n')
}

// String returns the digest text.
func (d *Digest) String() string {
	return d.b.String()
}
