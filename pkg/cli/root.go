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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/logging"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/version"
)

const (
	exitFailure  = 1
	exitCanceled = 2
)

// Execute runs the gpuprobe command line and exits with its status code.
// This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var ec cli.ExitCoder
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ec):
		return ec.ExitCode()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return exitCanceled
	default:
		return exitFailure
	}
}

func newRootCmd() *cli.Command {
	info := version.Get()
	return &cli.Command{
		Name:                  version.Name,
		Usage:                 "Report free GPU cards across a fleet of hosts",
		Version:               info.String(),
		EnableShellCompletion: true,
		Description: `Connects to every host of an inventory over SSH, queries nvidia-smi
for free memory, total memory and utilization, and reports which cards are
available: more than half of their memory free and less than 50% busy.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvVarLogLevel),
				Value:   "info",
			},
		},
		// Exit codes are decided by Execute, not by the framework.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(version.Name, info.Version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", version.Name,
				"version", info.Version,
				"commit", info.Commit,
				"date", info.Date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			probeCmd(),
			hostsCmd(),
		},
	}
}

// stdout returns the writer command output goes to.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
