// Copyright 2026 LinkedIn Corporation. All Rights Reserved.
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

// Package retry wraps github.com/cenkalti/backoff/v4 with the three
// recovery policies spec.md §7 names: UpstreamUnavailable,
// VersionTopicProduceFailed and LocalStoreCommitFailed. Each gets an
// exponential backoff with a maximum elapsed-time budget; exhausting the
// budget is what promotes a Transient error into a Fatal one
// (spec.md §4.1 "Errors").
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/linkedin/venice/pkg/ingerrors"
)

// Policy names one of spec.md §7's three retryable failure classes.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// UpstreamUnavailable retries a stalled upstream fetch.
func UpstreamUnavailable() Policy {
	return Policy{InitialInterval: 500 * time.Millisecond, MaxInterval: 30 * time.Second, MaxElapsedTime: 5 * time.Minute}
}

// VersionTopicProduceFailed retries a leader's failed re-production.
func VersionTopicProduceFailed() Policy {
	return Policy{InitialInterval: 200 * time.Millisecond, MaxInterval: 10 * time.Second, MaxElapsedTime: 2 * time.Minute}
}

// LocalStoreCommitFailed retries a failed durable-store commit.
func LocalStoreCommitFailed() Policy {
	return Policy{InitialInterval: 100 * time.Millisecond, MaxInterval: 5 * time.Second, MaxElapsedTime: 1 * time.Minute}
}

func (p Policy) backoff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.MaxInterval = p.MaxInterval
	eb.MaxElapsedTime = p.MaxElapsedTime
	return backoff.WithContext(eb, ctx)
}

// Do runs fn under policy until it succeeds, ctx is done, or the policy's
// elapsed-time budget is exhausted. Budget exhaustion is reported as an
// ingerrors.Fatal error wrapping fn's last error, per spec.md §4.1's rule
// that a retry budget exhausted promotes Transient to Fatal.
func Do(ctx context.Context, policy Policy, label string, fn func() error) error {
	var lastErr error
	err := backoff.Retry(func() error {
		lastErr = fn()
		return lastErr
	}, policy.backoff(ctx))
	if err == nil {
		return nil
	}
	return ingerrors.Fatal.New("%s: retry budget exhausted: %v", label, lastErr)
}
