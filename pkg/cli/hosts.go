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
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/remote"
)

func hostsCmd() *cli.Command {
	return &cli.Command{
		Name:  "hosts",
		Usage: "List the hosts that would be probed",
		Description: `Prints the resolved host list in probe order together with the SSH
endpoint each address maps to. No connection is made.

  gpuprobe hosts -c fleet.yaml`,
		Flags: []cli.Flag{
			configFlag(),
			hostFlag(),
			&cli.IntFlag{
				Name:  "port",
				Usage: "SSH port for addresses without one (default: 22)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.IsSet("port") {
				cfg.Port = int(cmd.Int("port"))
			}
			if err := cfg.ApplyDefaults(); err != nil {
				return err
			}
			if err := cfg.ValidateHosts(); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(stdout(cmd), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tADDRESS\tENDPOINT")
			for _, h := range cfg.Hosts {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Name, h.Address, remote.HostPort(h.Address, cfg.Port))
			}
			return tw.Flush()
		},
	}
}
