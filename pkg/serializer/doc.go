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

// Package serializer reads structured configuration documents and writes
// plain-text reports.
//
// Two input formats are supported for reading:
//   - JSON: machine-generated inventories
//   - YAML: hand-maintained inventories
//
// Reading is strict: fields that do not exist on the target type are
// rejected, so a misspelled key fails loudly instead of being ignored.
//
// Usage:
//
//	cfg, err := serializer.FromFile[inventory.Config]("fleet.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Reports are written as text to stdout or a file:
//
//	w, err := serializer.NewFileWriterOrStdout("digest.txt")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer w.Close() // Important: close to release file handles
//	err = w.Serialize(ctx, digest)
package serializer
