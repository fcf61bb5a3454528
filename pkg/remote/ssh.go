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
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/defaults"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/errors"
)

// SSHConfig describes how to reach every host of the fleet. Credentials are
// shared across hosts.
type SSHConfig struct {
	// User is the remote login name.
	User string

	// PrivateKeyPath points to an unencrypted private key in OpenSSH or PEM format.
	PrivateKeyPath string

	// KnownHostsPath is the known_hosts file used to verify host keys.
	// Defaults to ~/.ssh/known_hosts.
	KnownHostsPath string

	// InsecureIgnoreHostKey accepts any host key without verification.
	InsecureIgnoreHostKey bool

	// Port is used for addresses without an explicit port. Defaults to 22.
	Port int

	// DialTimeout bounds TCP connect plus SSH handshake.
	DialTimeout time.Duration

	// CommandTimeout bounds each Run call. Zero leaves only the caller's deadline.
	CommandTimeout time.Duration

	// ClientVersion is the identification string sent to servers. Empty
	// uses the library default.
	ClientVersion string
}

// SSHDialer opens key-authenticated SSH sessions.
type SSHDialer struct {
	cfg    SSHConfig
	client *ssh.ClientConfig
	net    net.Dialer
}

// NewSSHDialer loads the private key and host key policy described by cfg.
func NewSSHDialer(cfg SSHConfig) (*SSHDialer, error) {
	if cfg.User == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "ssh user is required")
	}
	if cfg.Port == 0 {
		cfg.Port = defaults.SSHPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaults.SSHDialTimeout
	}

	signer, err := loadSigner(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	hostKeyCallback, err := hostKeyPolicy(cfg)
	if err != nil {
		return nil, err
	}

	return &SSHDialer{
		cfg: cfg,
		client: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: hostKeyCallback,
			Timeout:         cfg.DialTimeout,
			ClientVersion:   cfg.ClientVersion,
		},
		net: net.Dialer{Timeout: cfg.DialTimeout},
	}, nil
}

func loadSigner(path string) (ssh.Signer, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "private key path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnauthorized, "failed to read private key", err,
			map[string]any{"path": path})
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if stderrors.As(err, &missing) {
			return nil, errors.WrapWithContext(errors.ErrCodeUnauthorized,
				"private key is passphrase protected", err, map[string]any{"path": path})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeUnauthorized, "failed to parse private key", err,
			map[string]any{"path": path})
	}
	return signer, nil
}

func hostKeyPolicy(cfg SSHConfig) (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		slog.Warn("host key verification disabled, any remote identity will be trusted")
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // explicit opt-in
	}

	path := cfg.KnownHostsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "cannot locate known_hosts", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}

	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load known_hosts", err,
			map[string]any{"path": path})
	}
	return cb, nil
}

// Dial connects to address and completes the SSH handshake. The handshake is
// abandoned when ctx is done or the dial timeout elapses, whichever is first.
func (d *SSHDialer) Dial(ctx context.Context, address string) (Session, error) {
	addr := HostPort(address, d.cfg.Port)
	slog.Debug("dialing host", "address", addr, "user", d.cfg.User)

	conn, err := d.net.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classifyDialError(ctx, addr, err)
	}

	deadline := time.Now().Add(d.cfg.DialTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to set handshake deadline", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, d.client)
	if !stop() || err != nil {
		_ = conn.Close()
		if err == nil {
			err = ctx.Err()
		}
		return nil, classifyHandshakeError(ctx, addr, err)
	}
	if err := conn.SetDeadline(time.Time{}); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to clear handshake deadline", err)
	}

	return &sshSession{
		client:  ssh.NewClient(c, chans, reqs),
		address: addr,
		timeout: d.cfg.CommandTimeout,
	}, nil
}

func classifyDialError(ctx context.Context, addr string, err error) error {
	ectx := map[string]any{"address": addr}
	if ctx.Err() != nil || isTimeout(err) {
		return errors.WrapWithContext(errors.ErrCodeTimeout, "connect timed out", err, ectx)
	}
	return errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to connect", err, ectx)
}

func classifyHandshakeError(ctx context.Context, addr string, err error) error {
	ectx := map[string]any{"address": addr}

	var keyErr *knownhosts.KeyError
	var revoked *knownhosts.RevokedError
	switch {
	case stderrors.As(err, &keyErr):
		if len(keyErr.Want) == 0 {
			return errors.WrapWithContext(errors.ErrCodeUnauthorized, "host key is not in known_hosts", err, ectx)
		}
		return errors.WrapWithContext(errors.ErrCodeUnauthorized, "host key mismatch", err, ectx)
	case stderrors.As(err, &revoked):
		return errors.WrapWithContext(errors.ErrCodeUnauthorized, "host key is revoked", err, ectx)
	case strings.Contains(err.Error(), "knownhosts:"):
		return errors.WrapWithContext(errors.ErrCodeUnauthorized, "host key verification failed", err, ectx)
	case strings.Contains(err.Error(), "unable to authenticate"):
		return errors.WrapWithContext(errors.ErrCodeUnauthorized, "authentication rejected", err, ectx)
	case ctx.Err() != nil || isTimeout(err):
		return errors.WrapWithContext(errors.ErrCodeTimeout, "handshake timed out", err, ectx)
	default:
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "handshake failed", err, ectx)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &ne) && ne.Timeout())
}

type sshSession struct {
	client  *ssh.Client
	address string
	timeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

// Run executes command on a fresh channel. A non-zero exit status is a
// command failure; the captured stderr is attached to the error context.
func (s *sshSession) Run(ctx context.Context, command string) (string, string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ectx := map[string]any{"address": s.address, "command": command}

	sess, err := s.client.NewSession()
	if err != nil {
		return "", "", errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to open channel", err, ectx)
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- sess.Run(command) }()

	select {
	case err := <-done:
		if err != nil {
			return stdout.String(), stderr.String(), classifyRunError(err, stderr.String(), ectx)
		}
		slog.Debug("remote command complete", "address", s.address, "command", command, "bytes", stdout.Len())
		return stdout.String(), stderr.String(), nil
	case <-ctx.Done():
		_ = sess.Signal(ssh.SIGKILL)
		_ = sess.Close()
		return "", "", errors.WrapWithContext(errors.ErrCodeTimeout, "remote command timed out", ctx.Err(), ectx)
	}
}

func classifyRunError(err error, stderr string, ectx map[string]any) error {
	var exitErr *ssh.ExitError
	var missing *ssh.ExitMissingError
	switch {
	case stderrors.As(err, &exitErr):
		ectx["exit_status"] = exitErr.ExitStatus()
		ectx["stderr"] = strings.TrimSpace(stderr)
		return errors.WrapWithContext(errors.ErrCodeCommandFailed,
			fmt.Sprintf("remote command exited with status %d", exitErr.ExitStatus()), err, ectx)
	case stderrors.As(err, &missing):
		return errors.WrapWithContext(errors.ErrCodeCommandFailed, "remote command ended without exit status", err, ectx)
	default:
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "remote command failed", err, ectx)
	}
}

// Close closes the underlying SSH connection once.
func (s *sshSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}
