package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/jwulff/f1grid/internal/openf1"
)

// Fetcher returns the raw driver-session rows of a session.
type Fetcher interface {
	Drivers(ctx context.Context, sessionKey int) ([]openf1.Driver, error)
}

// Outcome is the result of one load.
type Outcome struct {
	Seq       uint64
	Result    Result
	Directory Directory // set when Result is ResultLoaded
	Failure   FailureKind
	Err       error
}

// Snapshot is a consistent view of the loader.
type Snapshot struct {
	State     State
	Directory Directory
	Seq       uint64 // sequence of the load that produced Directory
	Failure   FailureKind
	Err       error // last failure, cleared by a successful load
	LoadedAt  time.Time
}

// Loader fetches the driver directory and tracks the load lifecycle.
// At most one load runs at a time. A failed load keeps the previous
// directory, so the first failure leaves it empty.
type Loader struct {
	fetcher    Fetcher
	sessionKey int
	locale     language.Tag
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	state    State
	issued   uint64
	inFlight uint64
	applied  uint64
	dir      Directory
	failure  FailureKind
	lastErr  error
	loadedAt time.Time
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLocale sets the collation used to sort team names.
func WithLocale(tag language.Tag) LoaderOption {
	return func(l *Loader) {
		l.locale = tag
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

// NewLoader creates a loader for one session.
func NewLoader(fetcher Fetcher, sessionKey int, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:    fetcher,
		sessionKey: sessionKey,
		locale:     language.English,
		logger:     zap.NewNop(),
		now:        time.Now,
		dir:        Directory{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SessionKey returns the session this loader fetches.
func (l *Loader) SessionKey() int { return l.sessionKey }

// Load runs Begin and Complete. It returns a ResultSkipped outcome when a
// load is already in flight.
func (l *Loader) Load(ctx context.Context) Outcome {
	seq, ok := l.Begin()
	if !ok {
		return Outcome{Result: ResultSkipped}
	}
	return l.Complete(ctx, seq)
}

// Begin marks a load as started and returns its sequence number. It returns
// false, changing nothing, while another load is in flight.
func (l *Loader) Begin() (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.InFlight() {
		l.logger.Debug("load already in flight", zap.Uint64("seq", l.inFlight))
		return 0, false
	}
	l.issued++
	l.inFlight = l.issued
	if l.state == StateIdle {
		l.state = StateLoading
	} else {
		l.state = StateRefreshing
	}
	l.logger.Info("loading drivers",
		zap.Uint64("seq", l.issued),
		zap.Int("session", l.sessionKey),
		zap.Stringer("state", l.state))
	return l.issued, true
}

// Complete performs the fetch for a load started by Begin and commits the
// result. Results for a sequence number that is not the one in flight are
// discarded as stale.
func (l *Loader) Complete(ctx context.Context, seq uint64) Outcome {
	rows, err := l.fetcher.Drivers(ctx, l.sessionKey)
	if err != nil {
		return l.fail(seq, err)
	}

	dir := Build(rows, l.locale)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.current(seq) {
		return Outcome{Seq: seq, Result: ResultStale}
	}
	l.inFlight = 0
	l.applied = seq
	l.state = StateLoaded
	l.dir = dir
	l.failure = FailureNone
	l.lastErr = nil
	l.loadedAt = l.now()

	l.logger.Info("drivers loaded",
		zap.Uint64("seq", seq),
		zap.Int("rows", len(rows)),
		zap.Int("drivers", len(dir)))
	if dropped := len(rows) - len(dir); dropped > 0 {
		l.logger.Debug("dropped duplicate driver rows", zap.Int("count", dropped))
	}
	return Outcome{Seq: seq, Result: ResultLoaded, Directory: dir}
}

func (l *Loader) fail(seq uint64, err error) Outcome {
	kind := classify(err)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.current(seq) {
		return Outcome{Seq: seq, Result: ResultStale}
	}
	l.inFlight = 0
	l.state = StateFailed
	l.failure = kind
	l.lastErr = err

	l.logger.Error("driver load failed",
		zap.Uint64("seq", seq),
		zap.Stringer("kind", kind),
		zap.Error(err))
	return Outcome{Seq: seq, Result: ResultFailed, Failure: kind, Err: err}
}

// current reports whether seq is the load in flight. Caller holds l.mu.
func (l *Loader) current(seq uint64) bool {
	if seq == 0 || seq != l.inFlight || seq <= l.applied {
		l.logger.Debug("discarding stale load",
			zap.Uint64("seq", seq),
			zap.Uint64("inFlight", l.inFlight))
		return false
	}
	return true
}

// Snapshot returns the current state and directory.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		State:     l.state,
		Directory: l.dir,
		Seq:       l.applied,
		Failure:   l.failure,
		Err:       l.lastErr,
		LoadedAt:  l.loadedAt,
	}
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func classify(err error) FailureKind {
	var parseErr *openf1.ParseError
	if errors.As(err, &parseErr) {
		return FailureParse
	}
	return FailureNetwork
}
