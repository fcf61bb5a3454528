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

package inventory

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/availability"
)

// Host is one machine of the fleet. Hosts are probed and reported in
// declaration order.
type Host struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
}

// String renders the host the way status lines do: "ML-01 (10.2.84.61)".
func (h Host) String() string {
	return fmt.Sprintf("%s (%s)", h.Name, h.Address)
}

// Credentials are shared by every host for the lifetime of the process.
type Credentials struct {
	Username       string `json:"username" yaml:"username"`
	PrivateKeyPath string `json:"privateKeyPath" yaml:"privateKeyPath"`
}

// Config is the fleet inventory together with connection and classification
// settings.
type Config struct {
	Credentials Credentials `json:"credentials" yaml:"credentials"`
	Hosts       []Host      `json:"hosts" yaml:"hosts"`

	// Port is used for host addresses without an explicit port.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// KnownHostsPath verifies host keys; defaults to ~/.ssh/known_hosts.
	KnownHostsPath string `json:"knownHostsPath,omitempty" yaml:"knownHostsPath,omitempty"`

	// InsecureIgnoreHostKey trusts any host key. Off unless set.
	InsecureIgnoreHostKey bool `json:"insecureIgnoreHostKey,omitempty" yaml:"insecureIgnoreHostKey,omitempty"`

	// Timeout bounds one host attempt end to end.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// DialTimeout bounds TCP connect plus SSH handshake.
	DialTimeout Duration `json:"dialTimeout,omitempty" yaml:"dialTimeout,omitempty"`

	// CommandTimeout bounds a single remote query.
	CommandTimeout Duration `json:"commandTimeout,omitempty" yaml:"commandTimeout,omitempty"`

	// Concurrency is the number of hosts probed in parallel; 1 is sequential.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// DialRate limits new connections per second across the fleet; 0 is unlimited.
	DialRate float64 `json:"dialRate,omitempty" yaml:"dialRate,omitempty"`

	// Policy sets the free card thresholds.
	Policy PolicyConfig `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// PolicyConfig holds the thresholds as written in the inventory. A nil field
// was not set and takes the default; an explicit zero is kept.
type PolicyConfig struct {
	MinFreeRatio   *float64 `json:"minFreeRatio,omitempty" yaml:"minFreeRatio,omitempty"`
	MaxUtilization *int     `json:"maxUtilization,omitempty" yaml:"maxUtilization,omitempty"`
}

// Resolve returns the effective policy, taking unset thresholds from
// availability.DefaultPolicy.
func (p PolicyConfig) Resolve() availability.Policy {
	policy := availability.DefaultPolicy()
	if p.MinFreeRatio != nil {
		policy.MinFreeRatio = *p.MinFreeRatio
	}
	if p.MaxUtilization != nil {
		policy.MaxUtilization = *p.MaxUtilization
	}
	return policy
}

// Duration is a time.Duration written as a Go duration string ("45s", "2m").
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

func parseDuration(s string) (Duration, error) {
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return Duration(v), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
