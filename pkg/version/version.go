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

// Package version carries build metadata injected at link time:
//
//	go build -ldflags="-X 'github.com/NVIDIA/gpu-fleet-probe/pkg/version.version=v1.2.0' \
//	  -X 'github.com/NVIDIA/gpu-fleet-probe/pkg/version.commit=$(git rev-parse --short HEAD)' \
//	  -X 'github.com/NVIDIA/gpu-fleet-probe/pkg/version.date=$(date -u +%FT%TZ)'"
package version

import (
	"fmt"
	"strings"
)

const (
	// Name is the program name used in logs and the SSH identification string.
	Name = "gpuprobe"

	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Info describes the running build.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{Version: version, Commit: commit, Date: date}
}

// String renders the build as "version (commit, built date)".
func (i Info) String() string {
	return fmt.Sprintf("%s (%s, built %s)", i.Version, i.Commit, i.Date)
}

// SSHClientVersion returns the identification string sent during the SSH
// handshake. Whitespace and minus signs are not allowed in the software
// version field, so they are replaced with underscores.
func (i Info) SSHClientVersion() string {
	v := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' || r < 0x21 || r > 0x7e {
			return '_'
		}
		return r
	}, i.Version)
	if v == "" {
		v = versionDefault
	}
	return "SSH-2.0-" + Name + "_" + v
}
