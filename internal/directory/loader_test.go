package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jwulff/f1grid/internal/openf1"
)

// fakeFetcher returns queued results in order; the last one repeats.
type fakeFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
	gate    chan struct{} // when set, Drivers blocks until it is closed
}

type fetchResult struct {
	rows []openf1.Driver
	err  error
}

func (f *fakeFetcher) Drivers(ctx context.Context, sessionKey int) ([]openf1.Driver, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	return r.rows, r.err
}

func ok(rows ...openf1.Driver) fetchResult { return fetchResult{rows: rows} }
func failed(err error) fetchResult         { return fetchResult{err: err} }

var errRefused = &openf1.NetworkError{URL: "http://test/drivers", Err: errors.New("connection refused")}

func TestLoaderInitialState(t *testing.T) {
	l := NewLoader(&fakeFetcher{results: []fetchResult{ok()}}, 9472)

	snap := l.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.NotNil(t, snap.Directory)
	assert.Empty(t, snap.Directory)
	assert.Equal(t, 9472, l.SessionKey())
}

func TestLoaderLoadSuccess(t *testing.T) {
	at := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	f := &fakeFetcher{results: []fetchResult{ok(drv(1, "Red Bull"), drv(1, "Red Bull"), drv(2, "Ferrari"))}}
	l := NewLoader(f, 9472, WithClock(func() time.Time { return at }))

	out := l.Load(context.Background())

	require.Equal(t, ResultLoaded, out.Result)
	assert.Equal(t, uint64(1), out.Seq)
	assert.Equal(t, []int{2, 1}, numbers(out.Directory))

	snap := l.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	assert.Equal(t, []int{2, 1}, numbers(snap.Directory))
	assert.Equal(t, uint64(1), snap.Seq)
	assert.Equal(t, at, snap.LoadedAt)
	assert.NoError(t, snap.Err)
}

func TestLoaderNetworkFailureLeavesEmptyDirectory(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	l := NewLoader(&fakeFetcher{results: []fetchResult{failed(errRefused)}}, 9472,
		WithLogger(zap.New(core)))

	out := l.Load(context.Background())

	assert.Equal(t, ResultFailed, out.Result)
	assert.Equal(t, FailureNetwork, out.Failure)
	assert.ErrorIs(t, out.Err, errRefused)

	snap := l.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Empty(t, snap.Directory)
	assert.Equal(t, FailureNetwork, snap.Failure)
	assert.Equal(t, 1, logs.FilterMessage("driver load failed").Len())
}

func TestLoaderParseFailure(t *testing.T) {
	parseErr := &openf1.ParseError{URL: "http://test/drivers", Err: errors.New("unexpected object")}
	l := NewLoader(&fakeFetcher{results: []fetchResult{failed(fmt.Errorf("wrapped: %w", parseErr))}}, 9472)

	out := l.Load(context.Background())

	assert.Equal(t, ResultFailed, out.Result)
	assert.Equal(t, FailureParse, out.Failure)
}

func TestLoaderRefreshReplacesDirectory(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{
		ok(drv(1, "Red Bull"), drv(16, "Ferrari")),
		ok(drv(4, "McLaren")),
	}}
	l := NewLoader(f, 9472)

	l.Load(context.Background())
	seq, started := l.Begin()
	require.True(t, started)
	assert.Equal(t, StateRefreshing, l.State())
	assert.Equal(t, []int{16, 1}, numbers(l.Snapshot().Directory), "previous directory shown while refreshing")

	out := l.Complete(context.Background(), seq)

	assert.Equal(t, ResultLoaded, out.Result)
	assert.Equal(t, uint64(2), out.Seq)
	assert.Equal(t, []int{4}, numbers(l.Snapshot().Directory))
}

func TestLoaderFailedRefreshKeepsDirectory(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{
		ok(drv(1, "Red Bull")),
		failed(errRefused),
	}}
	l := NewLoader(f, 9472)

	l.Load(context.Background())
	out := l.Load(context.Background())

	assert.Equal(t, ResultFailed, out.Result)
	snap := l.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, []int{1}, numbers(snap.Directory))
	assert.Equal(t, uint64(1), snap.Seq)
}

func TestLoaderSuccessClearsFailure(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{failed(errRefused), ok(drv(1, "Red Bull"))}}
	l := NewLoader(f, 9472)

	l.Load(context.Background())
	require.Equal(t, StateFailed, l.State())

	seq, started := l.Begin()
	require.True(t, started)
	assert.Equal(t, StateRefreshing, l.State())
	l.Complete(context.Background(), seq)

	snap := l.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	assert.Equal(t, FailureNone, snap.Failure)
	assert.NoError(t, snap.Err)
}

func TestLoaderBeginWhileInFlight(t *testing.T) {
	l := NewLoader(&fakeFetcher{results: []fetchResult{ok()}}, 9472)

	seq, started := l.Begin()
	require.True(t, started)
	assert.Equal(t, StateLoading, l.State())

	_, again := l.Begin()
	assert.False(t, again)

	out := l.Load(context.Background())
	assert.Equal(t, ResultSkipped, out.Result)

	l.Complete(context.Background(), seq)
	assert.Equal(t, StateLoaded, l.State())
}

func TestLoaderOverlappingLoadsFetchOnce(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{ok(drv(1, "Red Bull"))}, gate: make(chan struct{})}
	l := NewLoader(f, 9472)

	first := make(chan Outcome, 1)
	go func() { first <- l.Load(context.Background()) }()
	require.Eventually(t, func() bool {
		return l.State() == StateLoading
	}, time.Second, time.Millisecond)

	for i := 0; i < 5; i++ {
		assert.Equal(t, ResultSkipped, l.Load(context.Background()).Result)
	}

	close(f.gate)
	out := <-first

	assert.Equal(t, ResultLoaded, out.Result)
	f.mu.Lock()
	assert.Equal(t, 1, f.calls)
	f.mu.Unlock()
}

func TestLoaderDiscardsStaleSequence(t *testing.T) {
	l := NewLoader(&fakeFetcher{results: []fetchResult{ok(drv(1, "Red Bull")), ok(drv(4, "McLaren"))}}, 9472)

	l.Load(context.Background())

	// seq 1 already applied; replaying it must not overwrite anything
	out := l.Complete(context.Background(), 1)
	assert.Equal(t, ResultStale, out.Result)
	assert.Equal(t, []int{1}, numbers(l.Snapshot().Directory))

	out = l.Complete(context.Background(), 0)
	assert.Equal(t, ResultStale, out.Result)
	assert.Equal(t, StateLoaded, l.State())
}

func TestLoaderCanceledContext(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{failed(&openf1.NetworkError{URL: "u", Err: context.Canceled})}}
	l := NewLoader(f, 9472)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := l.Load(ctx)

	assert.Equal(t, ResultFailed, out.Result)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Equal(t, FailureNetwork, out.Failure)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "refreshing", StateRefreshing.String())
	assert.Equal(t, "parse", FailureParse.String())
	assert.Equal(t, "skipped", ResultSkipped.String())
	assert.True(t, StateLoading.InFlight())
	assert.False(t, StateFailed.InFlight())
}
