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
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/errors"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/prober"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/remote"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/report"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/serializer"
)

// newDialer builds the SSH dialer; tests swap it for an in-memory fake.
var newDialer = func(cfg remote.SSHConfig) (remote.Dialer, error) {
	return remote.NewSSHDialer(cfg)
}

// metricsGatherer is the registry written by --metrics-file.
var metricsGatherer prometheus.Gatherer = prometheus.DefaultGatherer

func probeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "probe",
		EnableShellCompletion: true,
		Usage:                 "Probe every host and report free GPU cards",
		Description: `Connects to each host of the inventory in declared order, runs three
nvidia-smi queries and prints one status block per host as soon as it and
all hosts before it have finished:

  2 cards available in ML-15 (10.2.101.223)
  ML-15 (10.2.101.223) Card 0: Available Memory 81000/81559; GPU Utilization 0%
  ML-15 (10.2.101.223) Card 3: Available Memory 80211/81559; GPU Utilization 4%

  No cards free in ML-14 (10.2.87.134)

  Unable to connect to ML-13 (10.2.94.212)

A card is available when more than half of its memory is free and its
utilization is below 50%. Any failure on a host, whether connection,
authentication, timeout, command or parse, is reported as "Unable to
connect".

The digest of free cards is written to --output. Hosts without a free card
are left out of the digest unless --digest-mode is complete (or --digest-all
is set).

# Examples

Probe the fleet described in fleet.yaml and print the digest:
  gpuprobe probe -c fleet.yaml --output -

Read the inventory from stdin and list every host in the digest:
  cat fleet.yaml | gpuprobe probe -c - --output digest.txt --digest-mode complete

Probe two hosts sequentially without an inventory file:
  gpuprobe probe -u ubuntu -i ~/.ssh/fleet_rsa \
    --host ML-01=10.2.84.61 --host ML-02=10.2.84.221 --concurrency 1

Fail the run when any host is unreachable and export metrics:
  gpuprobe probe -c fleet.yaml --fail-on-unavailable \
    --metrics-file /var/lib/node_exporter/gpuprobe.prom`,
		Flags: append([]cli.Flag{
			configFlag(),
			hostFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the digest to this file, - for stdout (default: not written)",
			},
			&cli.StringFlag{
				Name:  "digest-mode",
				Value: string(report.DigestModeAvailable),
				Usage: "Digest contents: available (free cards and failed hosts) or complete (every host)",
			},
			&cli.BoolFlag{
				Name:  "digest-all",
				Usage: "Shorthand for --digest-mode complete",
			},
			&cli.BoolFlag{
				Name:  "fail-on-unavailable",
				Usage: "Exit with status 1 when any host could not be probed",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics in text format to this file at the end of the run",
			},
		}, connectionFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clock := startClock(stdout(cmd))
			err := runProbe(ctx, cmd)
			clock.stop(err)
			return err
		},
	}
}

func runProbe(ctx context.Context, cmd *cli.Command) error {
	w := stdout(cmd)

	mode, err := digestMode(cmd)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	dialer, err := newDialer(sshConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create ssh dialer: %w", err)
	}

	digest := report.NewDigest(mode)

	policy := cfg.Policy.Resolve()
	p := &prober.Prober{
		Dialer:      dialer,
		Policy:      &policy,
		Timeout:     cfg.Timeout.Std(),
		Concurrency: cfg.Concurrency,
		Limiter:     prober.NewLimiter(cfg.DialRate),
	}

	summary, runErr := p.Run(ctx, cfg.Hosts, func(r prober.Result) {
		fmt.Fprintln(w, report.Block(r.Host, r.Report))
		digest.Add(r.Host, r.Report)
	})

	// The digest and metrics cover whatever finished, even after an interrupt.
	outCtx := context.WithoutCancel(ctx)
	if err := writeDigest(outCtx, cmd, digest); err != nil {
		return err
	}
	if err := writeMetrics(cmd.String("metrics-file")); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}

	if cmd.Bool("fail-on-unavailable") && summary.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d hosts could not be probed", summary.Failed, summary.Hosts), exitFailure)
	}
	return nil
}

// digestMode resolves --digest-mode, with --digest-all forcing the complete
// digest.
func digestMode(cmd *cli.Command) (report.DigestMode, error) {
	if cmd.Bool("digest-all") {
		return report.DigestModeComplete, nil
	}
	mode, err := report.ParseDigestMode(cmd.String("digest-mode"))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid --digest-mode", err)
	}
	return mode, nil
}

// writeDigest writes the digest to --output. An empty path skips it and "-"
// selects the command's stdout.
func writeDigest(ctx context.Context, cmd *cli.Command, digest *report.Digest) error {
	path := strings.TrimSpace(cmd.String("output"))
	if path == "" {
		return nil
	}

	var out *serializer.Writer
	if path == serializer.StdoutPath {
		out = serializer.NewWriter(stdout(cmd))
	} else {
		var err error
		if out, err = serializer.NewFileWriterOrStdout(path); err != nil {
			return err
		}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			slog.Warn("failed to close digest output", slog.String("path", path), slog.String("error", cerr.Error()))
		}
	}()

	if err := out.Serialize(ctx, digest); err != nil {
		return fmt.Errorf("failed to write digest: %w", err)
	}
	slog.Debug("digest written", slog.String("path", path), slog.String("mode", string(digest.Mode())))
	return nil
}

// writeMetrics exports the metrics registry for the node_exporter textfile
// collector. An empty path skips it.
func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, metricsGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	slog.Debug("metrics written", slog.String("path", path))
	return nil
}
