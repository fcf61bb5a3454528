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

package cli

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/inventory"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/remote"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/version"
)

// EnvVarConfig names the environment variable holding the inventory path.
const EnvVarConfig = "GPUPROBE_CONFIG"

// stdinPath reads the inventory from standard input.
const stdinPath = "-"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the inventory file (YAML or JSON), or - to read YAML from stdin",
		Sources: cli.EnvVars(EnvVarConfig),
	}
}

func hostFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "host",
		Usage: "Host to probe as name=address, replaces the inventory host list (can be repeated)",
	}
}

// connectionFlags override the matching inventory settings when set.
func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "Remote login name",
			Sources: cli.EnvVars("GPUPROBE_USER"),
		},
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"i"},
			Usage:   "Private key file used to authenticate",
			Sources: cli.EnvVars("GPUPROBE_KEY"),
		},
		&cli.StringFlag{
			Name:  "known-hosts",
			Usage: "known_hosts file used to verify host keys (default: ~/.ssh/known_hosts)",
		},
		&cli.BoolFlag{
			Name:  "insecure-ignore-host-key",
			Usage: "Accept any host key without verification",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "SSH port for addresses without one (default: 22)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Time budget for one host, from connect to close (default: 1m)",
		},
		&cli.DurationFlag{
			Name:  "dial-timeout",
			Usage: "Time budget for connect and SSH handshake (default: 10s)",
		},
		&cli.DurationFlag{
			Name:  "command-timeout",
			Usage: "Time budget for a single nvidia-smi query (default: 30s)",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Number of hosts probed in parallel, 1 probes sequentially (default: 4)",
		},
		&cli.FloatFlag{
			Name:  "dial-rate",
			Usage: "Maximum new connections per second, 0 is unlimited",
		},
		&cli.FloatFlag{
			Name:  "min-free-ratio",
			Usage: "Free memory share a card must exceed to be available (default: 0.5)",
		},
		&cli.IntFlag{
			Name:  "max-utilization",
			Usage: "Utilization percent a card must stay below to be available (default: 50)",
		},
	}
}

// loadConfig reads the inventory named by --config, if any, and merges the
// host list given with --host.
func loadConfig(cmd *cli.Command) (*inventory.Config, error) {
	cfg := &inventory.Config{}
	if path := cmd.String("config"); path != "" {
		var (
			loaded *inventory.Config
			err    error
		)
		if path == stdinPath {
			loaded, err = inventory.LoadReader(cmd.Root().Reader)
		} else {
			loaded, err = inventory.Load(path)
		}
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.IsSet("host") {
		hosts, err := inventory.ParseHosts(cmd.StringSlice("host"))
		if err != nil {
			return nil, fmt.Errorf("invalid host: %w", err)
		}
		cfg.Hosts = hosts
	}
	return cfg, nil
}

// resolveConfig builds the complete probe configuration from the inventory
// and the connection flags, then validates it.
func resolveConfig(cmd *cli.Command) (*inventory.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("user") {
		cfg.Credentials.Username = cmd.String("user")
	}
	if cmd.IsSet("key") {
		cfg.Credentials.PrivateKeyPath = cmd.String("key")
	}
	if cmd.IsSet("known-hosts") {
		cfg.KnownHostsPath = cmd.String("known-hosts")
	}
	if cmd.IsSet("insecure-ignore-host-key") {
		cfg.InsecureIgnoreHostKey = cmd.Bool("insecure-ignore-host-key")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("timeout") {
		cfg.Timeout = inventory.Duration(cmd.Duration("timeout"))
	}
	if cmd.IsSet("dial-timeout") {
		cfg.DialTimeout = inventory.Duration(cmd.Duration("dial-timeout"))
	}
	if cmd.IsSet("command-timeout") {
		cfg.CommandTimeout = inventory.Duration(cmd.Duration("command-timeout"))
	}
	if cmd.IsSet("concurrency") {
		cfg.Concurrency = int(cmd.Int("concurrency"))
	}
	if cmd.IsSet("dial-rate") {
		cfg.DialRate = cmd.Float("dial-rate")
	}
	if cmd.IsSet("min-free-ratio") {
		ratio := cmd.Float("min-free-ratio")
		cfg.Policy.MinFreeRatio = &ratio
	}
	if cmd.IsSet("max-utilization") {
		util := int(cmd.Int("max-utilization"))
		cfg.Policy.MaxUtilization = &util
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("configuration resolved",
		slog.Int("hosts", len(cfg.Hosts)),
		slog.String("user", cfg.Credentials.Username),
		slog.Int("concurrency", cfg.Concurrency),
		slog.Duration("timeout", cfg.Timeout.Std()),
		slog.Bool("insecure_ignore_host_key", cfg.InsecureIgnoreHostKey))
	return cfg, nil
}

// sshConfig maps the resolved inventory onto the dialer settings.
func sshConfig(cfg *inventory.Config) remote.SSHConfig {
	return remote.SSHConfig{
		User:                  cfg.Credentials.Username,
		PrivateKeyPath:        cfg.Credentials.PrivateKeyPath,
		KnownHostsPath:        cfg.KnownHostsPath,
		InsecureIgnoreHostKey: cfg.InsecureIgnoreHostKey,
		Port:                  cfg.Port,
		DialTimeout:           cfg.DialTimeout.Std(),
		CommandTimeout:        cfg.CommandTimeout.Std(),
		ClientVersion:         version.Get().SSHClientVersion(),
	}
}
