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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, versionDefault, info.Version)
	assert.Equal(t, "unknown", info.Commit)
	assert.Equal(t, "dev (unknown, built unknown)", info.String())
}

func TestSSHClientVersion(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{version: "v1.2.0", want: "SSH-2.0-gpuprobe_v1.2.0"},
		{version: "v1.2.0-rc.1", want: "SSH-2.0-gpuprobe_v1.2.0_rc.1"},
		{version: "1.0 beta", want: "SSH-2.0-gpuprobe_1.0_beta"},
		{version: "", want: "SSH-2.0-gpuprobe_dev"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, Info{Version: tt.version}.SSHClientVersion())
		})
	}
}
