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
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer writes text reports to an output destination.
// Close must be called to release file handles when using NewFileWriterOrStdout.
type Writer struct {
	output io.Writer
	closer io.Closer
}

// NewWriter creates a new Writer for the given destination.
// If output is nil, os.Stdout will be used.
func NewWriter(output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{output: output}
}

// NewStdoutWriter creates a new Writer that outputs to stdout.
func NewStdoutWriter() *Writer {
	return &Writer{output: os.Stdout}
}

// NewFileWriterOrStdout creates a Writer for path. An empty path or "-"
// selects stdout; anything else is created (or truncated) as a file.
// Remember to call Close() on the returned Writer.
func NewFileWriterOrStdout(path string) (*Writer, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == StdoutPath {
		return NewStdoutWriter(), nil
	}

	file, err := os.Create(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", trimmed, err)
	}

	return &Writer{
		output: file,
		closer: file,
	}, nil
}

// Close releases any resources associated with the Writer.
// It's safe to call Close multiple times or on stdout-based writers.
func (w *Writer) Close() error {
	if w.closer != nil {
		err := w.closer.Close()
		w.closer = nil
		return err
	}
	return nil
}

// Serialize writes report as text. Strings and fmt.Stringer values are
// written verbatim; anything else uses its default formatting.
func (w *Writer) Serialize(ctx context.Context, report any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var text string
	switch v := report.(type) {
	case string:
		text = v
	case fmt.Stringer:
		text = v.String()
	default:
		text = fmt.Sprint(v)
	}

	if _, err := io.WriteString(w.output, text); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
