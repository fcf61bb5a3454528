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

package remote

import (
	"context"
	"net"
	"strconv"
)

// Session is a connection to one remote host able to run commands.
type Session interface {
	// Run executes command to completion and returns its decoded output.
	Run(ctx context.Context, command string) (stdout, stderr string, err error)
	// Close releases the connection. It is safe to call more than once.
	Close() error
}

// Dialer opens sessions to remote hosts.
type Dialer interface {
	Dial(ctx context.Context, address string) (Session, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, address string) (Session, error)

// Dial calls f(ctx, address).
func (f DialerFunc) Dial(ctx context.Context, address string) (Session, error) {
	return f(ctx, address)
}

// HostPort appends port to address unless address already carries one.
// Bare IPv6 literals are bracketed.
func HostPort(address string, port int) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	return net.JoinHostPort(address, strconv.Itoa(port))
}
