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
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/availability"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/defaults"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/errors"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/inventory"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/remote"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/report"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/smi"
)

// Prober probes hosts for free GPU cards.
type Prober struct {
	// Dialer opens the remote session for each host. Required.
	Dialer remote.Dialer

	// Policy classifies cards. Nil uses availability.DefaultPolicy.
	Policy *availability.Policy

	// Timeout bounds one host attempt from dial to close. Waiting on the
	// Limiter does not count. Zero or negative uses defaults.ProbeHostTimeout.
	Timeout time.Duration

	// Concurrency is the maximum number of hosts in flight. Zero uses
	// defaults.ProbeConcurrency; 1 probes sequentially.
	Concurrency int

	// Limiter paces dial attempts across the run. Nil means unlimited.
	Limiter *rate.Limiter
}

// NewLimiter returns a dial limiter allowing perSecond new connections per
// second, or nil when perSecond is not positive.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (p *Prober) timeout() time.Duration {
	if p.Timeout <= 0 {
		return defaults.ProbeHostTimeout
	}
	return p.Timeout
}

func (p *Prober) policy() availability.Policy {
	if p.Policy == nil {
		return availability.DefaultPolicy()
	}
	return *p.Policy
}

func (p *Prober) concurrency() int {
	switch {
	case p.Concurrency <= 0:
		return defaults.ProbeConcurrency
	case p.Concurrency > defaults.MaxProbeConcurrency:
		return defaults.MaxProbeConcurrency
	default:
		return p.Concurrency
	}
}

// Run probes hosts and hands each Result to onResult in declared host order.
// Every host yields exactly one Result, whatever happens to the others.
// onResult is called from a single goroutine and may be nil.
//
// Run only returns an error when ctx ends before all hosts were attempted;
// the hosts cut short are reported as timeouts and the Summary still covers
// every host.
func (p *Prober) Run(ctx context.Context, hosts []inventory.Host, onResult func(Result)) (*Summary, error) {
	if p.Dialer == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "prober requires a dialer")
	}

	runID := uuid.NewString()
	log := slog.With(slog.String("run_id", runID))
	log.Info("probe run started",
		slog.Int("hosts", len(hosts)),
		slog.Int("concurrency", p.concurrency()),
		slog.Duration("timeout", p.timeout()))

	start := time.Now()
	summary := &Summary{RunID: runID}

	results := make([]Result, len(hosts))
	done := make([]chan struct{}, len(hosts))
	for i := range done {
		done[i] = make(chan struct{})
	}

	// Deliver in declared order: wait for host i before looking at i+1.
	delivered := make(chan struct{})
	go func() {
		defer close(delivered)
		for i := range hosts {
			<-done[i]
			summary.add(results[i])
			if onResult != nil {
				onResult(results[i])
			}
		}
	}()

	// A host failure is a Result, never a group error, so one host can not
	// cancel the others.
	var g errgroup.Group
	g.SetLimit(p.concurrency())
	for i, h := range hosts {
		g.Go(func() error {
			defer close(done[i])
			results[i] = p.probe(ctx, log, h)
			return nil
		})
	}
	_ = g.Wait()
	<-delivered

	summary.Duration = time.Since(start)
	runDuration.Observe(summary.Duration.Seconds())

	log.Info("probe run finished",
		slog.Int("hosts", summary.Hosts),
		slog.Int("with_free", summary.SucceededWithFree),
		slog.Int("no_free", summary.SucceededNoFree),
		slog.Int("failed", summary.Failed),
		slog.Int("free_cards", summary.FreeCards),
		slog.Duration("duration", summary.Duration))

	if err := ctx.Err(); err != nil {
		return summary, errors.Wrap(errors.ErrCodeTimeout, "probe run interrupted", err)
	}
	return summary, nil
}

// Probe runs a single host attempt.
func (p *Prober) Probe(ctx context.Context, host inventory.Host) Result {
	if p.Dialer == nil {
		return Result{
			Host:    host,
			State:   StateFailed,
			Failure: FailureConnection,
			Err:     errors.New(errors.ErrCodeInvalidRequest, "prober requires a dialer"),
		}
	}
	return p.probe(ctx, slog.Default(), host)
}

func (p *Prober) probe(ctx context.Context, log *slog.Logger, host inventory.Host) Result {
	hostsInFlight.Inc()
	defer hostsInFlight.Dec()

	start := time.Now()
	res := Result{Host: host, State: StateAttempting}

	log.Debug("probing host", slog.String("host", host.Name), slog.String("address", host.Address))

	var (
		rep      *report.HostReport
		s        step
		timedOut bool
	)
	err := p.wait(ctx)
	if err != nil {
		s, timedOut = stepDial, true
	} else {
		start = time.Now()
		hctx, cancel := context.WithTimeout(ctx, p.timeout())
		rep, s, err = p.attempt(hctx, host)
		timedOut = hctx.Err() != nil
		cancel()
	}
	res.Duration = time.Since(start)

	switch {
	case err != nil:
		res.State = StateFailed
		res.Err = err
		res.Failure = failureKind(s, err)
		if timedOut {
			res.Failure = FailureTimeout
		}
	case rep.FreeCardCount > 0:
		res.State = StateSucceededWithFree
		res.Report = rep
	default:
		res.State = StateSucceededNoFree
		res.Report = rep
	}

	hostProbeTotal.WithLabelValues(string(res.State), string(res.Failure)).Inc()
	hostProbeDuration.WithLabelValues(string(res.State)).Observe(res.Duration.Seconds())
	if rep != nil {
		hostFreeCards.WithLabelValues(host.Name).Set(float64(rep.FreeCardCount))
	} else {
		hostFreeCards.WithLabelValues(host.Name).Set(0)
	}

	attrs := []any{
		slog.String("host", host.Name),
		slog.String("address", host.Address),
		slog.String("state", string(res.State)),
		slog.Duration("duration", res.Duration),
	}
	if err != nil {
		log.Warn("host probe failed", append(attrs,
			slog.String("step", string(s)),
			slog.String("failure", string(res.Failure)),
			slog.String("error", err.Error()))...)
	} else {
		log.Info("host probed", append(attrs, slog.Int("free_cards", rep.FreeCardCount))...)
	}

	return res
}

// wait takes a dial slot from the limiter. It runs on the run context,
// before the host deadline starts.
func (p *Prober) wait(ctx context.Context) error {
	if p.Limiter == nil {
		return nil
	}
	if err := p.Limiter.Wait(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, "dial rate limit wait aborted", err)
	}
	return nil
}

// attempt performs dial, query, classify and close for one host. The
// session is closed on every path once the dial succeeded.
func (p *Prober) attempt(ctx context.Context, host inventory.Host) (*report.HostReport, step, error) {
	sess, err := p.Dialer.Dial(ctx, host.Address)
	if err != nil {
		return nil, stepDial, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			slog.Debug("failed to close session", slog.String("host", host.Name), slog.String("error", cerr.Error()))
		}
	}()

	samples, err := smi.Query(ctx, sess)
	if err != nil {
		return nil, stepQuery, err
	}

	cards, err := p.policy().Classify(samples)
	if err != nil {
		return nil, stepClassify, err
	}

	return report.NewHostReport(host, cards), "", nil
}
