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

package prober

import (
	"fmt"
	"time"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/errors"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/inventory"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/report"
)

// State is the lifecycle position of one host within a run.
type State string

const (
	StateAttempting        State = "attempting"
	StateSucceededWithFree State = "succeeded_with_free"
	StateSucceededNoFree   State = "succeeded_no_free"
	StateFailed            State = "failed"
)

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	return s == StateSucceededWithFree || s == StateSucceededNoFree || s == StateFailed
}

// FailureKind says which step of a host attempt failed.
type FailureKind string

const (
	FailureNone           FailureKind = ""
	FailureConnection     FailureKind = "connection"
	FailureAuthentication FailureKind = "authentication"
	FailureTimeout        FailureKind = "timeout"
	FailureCommand        FailureKind = "command"
	FailureParse          FailureKind = "parse"
	FailureClassification FailureKind = "classification"
)

// Result is the tagged outcome of one host. Report is set only for the two
// succeeded states; Failure and Err only for StateFailed.
type Result struct {
	Host     inventory.Host
	State    State
	Report   *report.HostReport
	Failure  FailureKind
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the host answered and was classified.
func (r Result) Succeeded() bool {
	return r.State == StateSucceededWithFree || r.State == StateSucceededNoFree
}

func (r Result) String() string {
	if r.State == StateFailed {
		return fmt.Sprintf("%s: %s (%s): %v", r.Host, r.State, r.Failure, r.Err)
	}
	return fmt.Sprintf("%s: %s", r.Host, r.State)
}

// step names the part of an attempt that produced an error.
type step string

const (
	stepDial     step = "dial"
	stepQuery    step = "query"
	stepClassify step = "classify"
)

// failureKind maps an attempt error to its FailureKind. Structured error
// codes win; the failing step decides otherwise.
func failureKind(s step, err error) FailureKind {
	switch errors.CodeOf(err) {
	case errors.ErrCodeTimeout:
		return FailureTimeout
	case errors.ErrCodeUnauthorized:
		return FailureAuthentication
	case errors.ErrCodeCommandFailed:
		return FailureCommand
	case errors.ErrCodeParse:
		return FailureParse
	case errors.ErrCodeUnavailable:
		return FailureConnection
	}

	switch s {
	case stepClassify:
		return FailureClassification
	case stepQuery:
		return FailureCommand
	default:
		return FailureConnection
	}
}

// Summary tallies the terminal states of a run.
type Summary struct {
	RunID             string        `json:"runId" yaml:"runId"`
	Hosts             int           `json:"hosts" yaml:"hosts"`
	SucceededWithFree int           `json:"succeededWithFree" yaml:"succeededWithFree"`
	SucceededNoFree   int           `json:"succeededNoFree" yaml:"succeededNoFree"`
	Failed            int           `json:"failed" yaml:"failed"`
	FreeCards         int           `json:"freeCards" yaml:"freeCards"`
	Duration          time.Duration `json:"duration" yaml:"duration"`
}

func (s *Summary) add(r Result) {
	s.Hosts++
	switch r.State {
	case StateSucceededWithFree:
		s.SucceededWithFree++
	case StateSucceededNoFree:
		s.SucceededNoFree++
	case StateFailed:
		s.Failed++
	}
	if r.Report != nil {
		s.FreeCards += r.Report.FreeCardCount
	}
}
