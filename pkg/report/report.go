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

	"github.com/NVIDIA/gpu-fleet-probe/pkg/availability"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/inventory"
)

// HostReport is the immutable result of a successful probe of one host.
type HostReport struct {
	Host inventory.Host `json:"host" yaml:"host"`

	// Cards holds every card in index order with its verdict.
	Cards []availability.Card `json:"cards" yaml:"cards"`

	// FreeCardCount is the number of cards in Cards marked available.
	FreeCardCount int `json:"freeCardCount" yaml:"freeCardCount"`

	// DetailLines holds one line per free card, in card order.
	DetailLines []string `json:"detailLines" yaml:"detailLines"`
}

// NewHostReport builds the report for host from its classified cards.
func NewHostReport(host inventory.Host, cards []availability.Card) *HostReport {
	free := availability.Available(cards)
	lines := make([]string, 0, len(free))
	for _, c := range free {
		lines = append(lines, DetailLine(host, c))
	}
	return &HostReport{
		Host:          host,
		Cards:         cards,
		FreeCardCount: len(free),
		DetailLines:   lines,
	}
}

// DetailLine describes one card without a trailing newline.
func DetailLine(host inventory.Host, c availability.Card) string {
	return fmt.Sprintf("%s Card %d: Available Memory %d/%d; GPU Utilization %d%%",
		host, c.Index, c.FreeMemoryMiB, c.TotalMemoryMiB, c.UtilizationPercent)
}

// Unavailable is the single line used for every failed host.
func Unavailable(host inventory.Host) string {
	return fmt.Sprintf("Unable to connect to %s", host)
}

// NoneFree is the line used for a reachable host without a free card.
func NoneFree(host inventory.Host) string {
	return fmt.Sprintf("No cards free in %s", host)
}

// Headline summarizes the free cards of a host.
func (r *HostReport) Headline() string {
	if r.FreeCardCount == 0 {
		return NoneFree(r.Host)
	}
	return fmt.Sprintf("%d cards available in %s", r.FreeCardCount, r.Host)
}

// Block renders the status block for a host. A nil report means the host
// failed. Every line, including the last, ends in a newline.
func Block(host inventory.Host, r *HostReport) string {
	if r == nil {
		return Unavailable(host) + "\n"
	}

	var b strings.Builder
	b.WriteString(r.Headline())
	b.WriteByte('\n')
	for _, line := range r.DetailLines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
