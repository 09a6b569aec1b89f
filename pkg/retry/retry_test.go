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

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/venice/pkg/ingerrors"
	"github.com/linkedin/venice/pkg/retry"
)

func TestDoSucceedsWithoutRetrying(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.LocalStoreCommitFailed(), "commit", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	policy := retry.Policy{InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond, MaxElapsedTime: time.Second}
	err := retry.Do(context.Background(), policy, "commit", func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoReturnsFatalWhenBudgetExhausted(t *testing.T) {
	policy := retry.Policy{InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond, MaxElapsedTime: 20 * time.Millisecond}
	err := retry.Do(context.Background(), policy, "commit", func() error {
		return errors.New("always fails")
	})
	require.Error(t, err)
	require.True(t, ingerrors.Fatal.Has(err), "a retry budget exhaustion must promote to an ingerrors.Fatal error")
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := retry.Policy{InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, MaxElapsedTime: time.Minute}
	calls := 0
	err := retry.Do(ctx, policy, "commit", func() error {
		calls++
		return errors.New("always fails")
	})
	require.Error(t, err)
	require.LessOrEqual(t, calls, 1)
}

func TestPolicyConstructorsAreDistinct(t *testing.T) {
	require.NotEqual(t, retry.UpstreamUnavailable(), retry.VersionTopicProduceFailed())
	require.NotEqual(t, retry.VersionTopicProduceFailed(), retry.LocalStoreCommitFailed())
}
