package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onestopshop/storefront/internal/core/envelope"
)

func TestResource_UseRunsOnFirstCallAndOnDepsChange(t *testing.T) {
	var calls atomic.Int32
	r := New(func(ctx context.Context) envelope.Envelope[int] {
		n := calls.Add(1)
		return envelope.OK("ok", int(n), "count")
	})

	st := r.Use(context.Background(), "a", 1)
	assert.Equal(t, 1, st.Data)
	assert.False(t, st.Loading)

	st = r.Use(context.Background(), "a", 1)
	assert.Equal(t, 1, st.Data, "same deps must not refetch")
	assert.EqualValues(t, 1, calls.Load())

	st = r.Use(context.Background(), "a", 2)
	assert.Equal(t, 2, st.Data)
	assert.EqualValues(t, 2, calls.Load())
}

func TestResource_RefetchAlwaysRuns(t *testing.T) {
	var calls atomic.Int32
	r := New(func(ctx context.Context) envelope.Envelope[int] {
		return envelope.OK("ok", int(calls.Add(1)), "")
	})

	r.Use(context.Background())
	st := r.Refetch(context.Background())
	assert.Equal(t, 2, st.Data)
}

func TestResource_FailureRecordsErrorAndNotifies(t *testing.T) {
	var notified []string
	r := New(func(ctx context.Context) envelope.Envelope[[]string] {
		return envelope.Fail[[]string](errors.New("permission denied"), "getUsers")
	}, WithNotifier(func(context, message string) {
		notified = append(notified, context+": "+message)
	}))

	st := r.Use(context.Background())
	assert.True(t, st.Failed())
	assert.Equal(t, "permission denied", st.Error)
	assert.False(t, st.Loading, "loading must be reset after failure")
	assert.Equal(t, []string{"getUsers: permission denied"}, notified)
}

func TestResource_FailureKeepsPreviousData(t *testing.T) {
	fail := false
	r := New(func(ctx context.Context) envelope.Envelope[string] {
		if fail {
			return envelope.Fail[string](errors.New("down"), "")
		}
		return envelope.OK("ok", "payload", "")
	})

	r.Use(context.Background())
	fail = true
	st := r.Refetch(context.Background())
	assert.Equal(t, "payload", st.Data)
	assert.Equal(t, "down", st.Error)
}

func TestResource_StaleCompletionIsDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	var calls atomic.Int32

	r := New(func(ctx context.Context) envelope.Envelope[string] {
		if calls.Add(1) == 1 {
			close(slowStarted)
			<-releaseSlow
			return envelope.OK("ok", "stale", "")
		}
		return envelope.OK("ok", "fresh", "")
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Use(context.Background(), "category-1")
	}()

	<-slowStarted
	fresh := r.Use(context.Background(), "category-2")
	require.Equal(t, "fresh", fresh.Data)

	close(releaseSlow)
	wg.Wait()

	st := r.State()
	assert.Equal(t, "fresh", st.Data, "late completion of an older request must not win")
	assert.False(t, st.Loading)
	assert.EqualValues(t, 2, st.Generation)
}
