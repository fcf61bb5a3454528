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

package serializer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// Test data structures
type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
	}{
		{"json lowercase", "fleet.json", FormatJSON},
		{"json uppercase", "FLEET.JSON", FormatJSON},
		{"yaml extension", "fleet.yaml", FormatYAML},
		{"yml extension", "fleet.yml", FormatYAML},
		{"yaml uppercase", "FLEET.YAML", FormatYAML},
		{"unknown extension defaults to yaml", "fleet.conf", FormatYAML},
		{"no extension defaults to yaml", "fleet", FormatYAML},
		{"path with directories", "/etc/gpuprobe/fleet.json", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatFromPath(tt.path)
			if result != tt.expected {
				t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestNewReader(t *testing.T) {
	t.Run("valid json format", func(t *testing.T) {
		reader, err := NewReader(FormatJSON, strings.NewReader(`{"name":"test"}`))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		if reader == nil {
			t.Fatal("expected non-nil reader")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := NewReader(Format("xml"), strings.NewReader("")); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestReader_Deserialize(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		want    testConfig
		wantErr bool
	}{
		{"json", FormatJSON, `{"name":"ML-01","value":4}`, testConfig{Name: "ML-01", Value: 4}, false},
		{"yaml", FormatYAML, "name: ML-02\nvalue: 8\n", testConfig{Name: "ML-02", Value: 8}, false},
		{"json unknown field", FormatJSON, `{"name":"x","nmae":"y"}`, testConfig{}, true},
		{"yaml unknown field", FormatYAML, "name: x\nvalu: 3\n", testConfig{}, true},
		{"invalid json", FormatJSON, `{invalid}`, testConfig{}, true},
		{"yaml type mismatch", FormatYAML, "value: lots\n", testConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewReader(tt.format, strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			var got testConfig
			err = reader.Deserialize(&got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReader_DeserializeNilChecks(t *testing.T) {
	var r *Reader
	if err := r.Deserialize(&testConfig{}); err == nil {
		t.Error("expected error for nil reader")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil reader should be a no-op, got %v", err)
	}

	r = &Reader{format: FormatJSON}
	if err := r.Deserialize(&testConfig{}); err == nil {
		t.Error("expected error for nil input")
	}
}

func TestReader_Close(t *testing.T) {
	path := writeTemp(t, "c.json", `{"name":"x"}`)
	reader, err := NewFileReader(FormatFromPath(path), path)
	if err != nil {
		t.Fatalf("NewFileReader failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}

type closeTracker struct {
	*strings.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestReader_DoesNotCloseInput(t *testing.T) {
	in := &closeTracker{Reader: strings.NewReader(`{"name":"x"}`)}
	reader, err := NewReader(FormatJSON, in)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if in.closed {
		t.Error("Close should leave a caller-owned input open")
	}
}

func TestFromReader(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		got, err := FromReader[testConfig](FormatYAML, strings.NewReader("name: ML-03\nvalue: 2\n"))
		if err != nil {
			t.Fatalf("FromReader failed: %v", err)
		}
		if *got != (testConfig{Name: "ML-03", Value: 2}) {
			t.Errorf("Unexpected result: %+v", got)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := FromReader[testConfig](Format("toml"), strings.NewReader("")); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := FromReader[testConfig](FormatJSON, strings.NewReader(`{"nmae":"x"}`))
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
		if !strings.Contains(err.Error(), "failed to deserialize") {
			t.Errorf("Expected deserialization error, got: %v", err)
		}
	})
}

func TestFromFile_Success(t *testing.T) {
	t.Run("load json file", func(t *testing.T) {
		jsonData, _ := json.Marshal(testConfig{Name: "fromfile", Value: 999})
		path := writeTemp(t, "test.json", string(jsonData))

		result, err := FromFile[testConfig](path)
		if err != nil {
			t.Fatalf("FromFile failed: %v", err)
		}
		if result.Name != "fromfile" || result.Value != 999 {
			t.Errorf("Unexpected result: %+v", result)
		}
	})

	t.Run("load yaml file", func(t *testing.T) {
		yamlData, _ := yaml.Marshal(testConfig{Name: "yamltest", Value: 777})
		path := writeTemp(t, "test.yaml", string(yamlData))

		result, err := FromFile[testConfig](path)
		if err != nil {
			t.Fatalf("FromFile failed: %v", err)
		}
		if result.Name != "yamltest" || result.Value != 777 {
			t.Errorf("Unexpected result: %+v", result)
		}
	})

	t.Run("load slice from yaml", func(t *testing.T) {
		path := writeTemp(t, "list.yml", "- name: a\n  value: 1\n- name: b\n  value: 2\n")

		result, err := FromFile[[]testConfig](path)
		if err != nil {
			t.Fatalf("FromFile failed: %v", err)
		}
		if len(*result) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(*result))
		}
	})
}

func TestFromFile_Errors(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		_, err := FromFile[testConfig]("/nonexistent/file.json")
		if err == nil {
			t.Fatal("Expected error for nonexistent file")
		}
		if !strings.Contains(err.Error(), "failed to create reader") {
			t.Errorf("Expected reader creation error, got: %v", err)
		}
	})

	t.Run("invalid json format", func(t *testing.T) {
		path := writeTemp(t, "bad.json", "{invalid json}")
		_, err := FromFile[testConfig](path)
		if err == nil {
			t.Fatal("Expected error for invalid JSON")
		}
		if !strings.Contains(err.Error(), "failed to deserialize") {
			t.Errorf("Expected deserialization error, got: %v", err)
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		path := writeTemp(t, "arr.json", `[{"name":"test"}]`)
		if _, err := FromFile[testConfig](path); err == nil {
			t.Fatal("Expected error for type mismatch")
		}
	})
}
