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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/defaults"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/errors"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/serializer"
)

// Load reads an inventory from a YAML or JSON file. Defaults are not applied
// and nothing is validated yet, so command line overrides can be merged in
// before ApplyDefaults and Validate.
func Load(path string) (*Config, error) {
	cfg, err := serializer.FromFile[Config](path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load inventory", err,
			map[string]any{"path": path})
	}
	slog.Debug("inventory loaded", "path", path, "hosts", len(cfg.Hosts))
	return cfg, nil
}

// LoadReader reads a YAML inventory, for example from standard input. JSON
// documents are accepted as well since JSON is valid YAML.
func LoadReader(r io.Reader) (*Config, error) {
	cfg, err := serializer.FromReader[Config](serializer.FormatYAML, r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read inventory", err)
	}
	slog.Debug("inventory read", "hosts", len(cfg.Hosts))
	return cfg, nil
}

// ApplyDefaults fills unset settings and expands "~" in file paths.
func (c *Config) ApplyDefaults() error {
	if c.Port == 0 {
		c.Port = defaults.SSHPort
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(defaults.ProbeHostTimeout)
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = Duration(defaults.SSHDialTimeout)
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = Duration(defaults.RemoteCommandTimeout)
	}
	if c.Concurrency == 0 {
		c.Concurrency = defaults.ProbeConcurrency
	}

	var err error
	if c.Credentials.PrivateKeyPath, err = ExpandPath(c.Credentials.PrivateKeyPath); err != nil {
		return err
	}
	if c.KnownHostsPath, err = ExpandPath(c.KnownHostsPath); err != nil {
		return err
	}
	return nil
}

// Validate reports the first problem that would prevent a run.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf(format, args...))
	}

	if c.Credentials.Username == "" {
		return invalid("credentials.username is required")
	}
	if c.Credentials.PrivateKeyPath == "" {
		return invalid("credentials.privateKeyPath is required")
	}
	if err := c.ValidateHosts(); err != nil {
		return err
	}

	if c.Port < 1 || c.Port > 65535 {
		return invalid("port %d out of range", c.Port)
	}
	if c.Timeout < 0 || c.DialTimeout < 0 || c.CommandTimeout < 0 {
		return invalid("timeouts must not be negative")
	}
	if c.Concurrency < 1 || c.Concurrency > defaults.MaxProbeConcurrency {
		return invalid("concurrency must be within [1, %d], got %d", defaults.MaxProbeConcurrency, c.Concurrency)
	}
	if c.DialRate < 0 {
		return invalid("dialRate must not be negative")
	}
	return c.Policy.Resolve().Validate()
}

// ValidateHosts checks the host list only: at least one host, each with a
// unique non-empty name and a non-empty address.
func (c *Config) ValidateHosts() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf(format, args...))
	}

	if len(c.Hosts) == 0 {
		return invalid("at least one host is required")
	}

	seen := make(map[string]int, len(c.Hosts))
	for i, h := range c.Hosts {
		if strings.TrimSpace(h.Name) == "" {
			return invalid("hosts[%d]: name is required", i)
		}
		if strings.TrimSpace(h.Address) == "" {
			return invalid("hosts[%d] %q: address is required", i, h.Name)
		}
		if j, dup := seen[h.Name]; dup {
			return invalid("hosts[%d]: name %q already used by hosts[%d]", i, h.Name, j)
		}
		seen[h.Name] = i
	}
	return nil
}

// ParseHosts parses host definitions of the form name=address. A bare
// address is used as its own name.
func ParseHosts(specs []string) ([]Host, error) {
	hosts := make([]Host, 0, len(specs))
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		name, address, found := strings.Cut(spec, "=")
		if !found {
			address = name
		}
		name, address = strings.TrimSpace(name), strings.TrimSpace(address)
		if name == "" || address == "" {
			return nil, errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid host %q, expected name=address", spec))
		}
		hosts = append(hosts, Host{Name: name, Address: address})
	}
	return hosts, nil
}

// ExpandPath replaces a leading "~" with the current user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "cannot expand home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
