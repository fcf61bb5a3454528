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

package smi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/errors"
)

// Field is an nvidia-smi --query-gpu property.
type Field string

const (
	FieldMemoryFree     Field = "memory.free"
	FieldMemoryTotal    Field = "memory.total"
	FieldUtilizationGPU Field = "utilization.gpu"
)

// Fields lists the queried properties in the order they are issued.
var Fields = []Field{FieldMemoryFree, FieldMemoryTotal, FieldUtilizationGPU}

// Command returns the exact remote command used to query f.
func (f Field) Command() string {
	return fmt.Sprintf("nvidia-smi --query-gpu=%s --format=csv", f)
}

// Sample is one physical card's readings, assembled by position from the
// three independently queried columns.
type Sample struct {
	Index              int `json:"index" yaml:"index"`
	FreeMemoryMiB      int `json:"freeMemoryMiB" yaml:"freeMemoryMiB"`
	TotalMemoryMiB     int `json:"totalMemoryMiB" yaml:"totalMemoryMiB"`
	UtilizationPercent int `json:"utilizationPercent" yaml:"utilizationPercent"`
}

// Runner executes a single remote command and returns its decoded output.
type Runner interface {
	Run(ctx context.Context, command string) (stdout, stderr string, err error)
}

// ParseColumn converts the CSV output of a single-field query into one
// integer per card.
//
// The output is split on newlines and the first segment (header) and the last
// segment (the text after the final newline) are dropped. Output that is not
// newline-terminated therefore loses its last data row. Blank rows are skipped;
// every other row contributes the integer value of its first whitespace
// delimited token, so "81559 MiB" yields 81559 and "7 %" yields 7.
func ParseColumn(output string) ([]int, error) {
	segments := strings.Split(output, "\n")
	if len(segments) < 2 {
		return []int{}, nil
	}
	rows := segments[1 : len(segments)-1]

	values := make([]int, 0, len(rows))
	for i, row := range rows {
		fields := strings.Fields(row)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeParse, "invalid numeric value", err,
				map[string]any{"row": i + 1, "text": row})
		}
		values = append(values, v)
	}
	return values, nil
}

// Assemble zips the three columns into samples. Columns of unequal length
// cannot be paired reliably and are rejected.
func Assemble(free, total, util []int) ([]Sample, error) {
	if len(free) != len(total) || len(free) != len(util) {
		return nil, errors.NewWithContext(errors.ErrCodeParse, "query columns disagree on card count",
			map[string]any{
				string(FieldMemoryFree):     len(free),
				string(FieldMemoryTotal):    len(total),
				string(FieldUtilizationGPU): len(util),
			})
	}

	samples := make([]Sample, len(free))
	for i := range free {
		samples[i] = Sample{
			Index:              i,
			FreeMemoryMiB:      free[i],
			TotalMemoryMiB:     total[i],
			UtilizationPercent: util[i],
		}
	}
	return samples, nil
}

// Query issues the three field queries in order over r and assembles the
// per-card samples. Each query is a separate round trip.
func Query(ctx context.Context, r Runner) ([]Sample, error) {
	columns := make([][]int, 0, len(Fields))
	for _, f := range Fields {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "query canceled", err)
		}
		stdout, _, err := r.Run(ctx, f.Command())
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", f, err)
		}
		values, err := ParseColumn(stdout)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		columns = append(columns, values)
	}
	return Assemble(columns[0], columns[1], columns[2])
}
