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

// Package availability decides which GPU cards count as free.
package availability

import (
	"fmt"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/defaults"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/errors"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/smi"
)

// Policy holds the thresholds a card must beat to be considered free.
// Both comparisons are strict: a card at exactly MinFreeRatio free memory or
// exactly MaxUtilization percent utilization is busy.
type Policy struct {
	MinFreeRatio   float64
	MaxUtilization int
}

// DefaultPolicy returns the 50% free memory / 50% utilization rule.
func DefaultPolicy() Policy {
	return Policy{
		MinFreeRatio:   defaults.MinFreeMemoryRatio,
		MaxUtilization: defaults.MaxUtilizationPercent,
	}
}

// Validate reports thresholds that can never or always match.
func (p Policy) Validate() error {
	if p.MinFreeRatio < 0 || p.MinFreeRatio >= 1 {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("minFreeRatio must be in [0, 1), got %v", p.MinFreeRatio))
	}
	if p.MaxUtilization <= 0 || p.MaxUtilization > 100 {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("maxUtilization must be in (0, 100], got %d", p.MaxUtilization))
	}
	return nil
}

// Card is a sample together with its verdict.
type Card struct {
	smi.Sample `json:",inline" yaml:",inline"`

	Available bool `json:"available" yaml:"available"`
}

// IsAvailable applies the policy to one sample. A zero total memory reading
// cannot be classified and is returned as an error.
func (p Policy) IsAvailable(s smi.Sample) (bool, error) {
	if s.TotalMemoryMiB == 0 {
		return false, errors.NewWithContext(errors.ErrCodeInvalidRequest, "card reports zero total memory",
			map[string]any{"card": s.Index})
	}
	ratio := float64(s.FreeMemoryMiB) / float64(s.TotalMemoryMiB)
	return ratio > p.MinFreeRatio && s.UtilizationPercent < p.MaxUtilization, nil
}

// Classify applies the policy to every sample, preserving card order. Any
// unclassifiable card fails the whole set.
func (p Policy) Classify(samples []smi.Sample) ([]Card, error) {
	cards := make([]Card, 0, len(samples))
	for _, s := range samples {
		ok, err := p.IsAvailable(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, Card{Sample: s, Available: ok})
	}
	return cards, nil
}

// Available filters cards down to the free ones.
func Available(cards []Card) []Card {
	free := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Available {
			free = append(free, c)
		}
	}
	return free
}
