package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/AngelCh415/dash-indaia/internal/ingest"
	"github.com/AngelCh415/dash-indaia/internal/models"
)

// Observer receives view state transitions, see metrics.Collectors.
type Observer interface {
	Loading(on bool)
	StaleDiscarded()
}

type nopObserver struct{}

func (nopObserver) Loading(bool)    {}
func (nopObserver) StaleDiscarded() {}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithContext bounds every fetch started by the controller.
func WithContext(ctx context.Context) Option { return func(c *Controller) { c.ctx = ctx } }

func WithObserver(o Observer) Option { return func(c *Controller) { c.obs = o } }

func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithDiscardStale drops settlements of any refresh that is not the most
// recent one. Without it the last fetch to settle wins, even an older one.
func WithDiscardStale(on bool) Option { return func(c *Controller) { c.discardStale = on } }

// Controller owns the ViewState of one dashboard session and is the only
// writer of it. Readers get consistent copies through State.
type Controller struct {
	src          ingest.Source
	log          *slog.Logger
	ctx          context.Context
	obs          Observer
	now          func() time.Time
	discardStale bool

	mu      sync.RWMutex
	state   models.ViewState
	seq     uint64 // ultimo refresh emitido
	settled bool
}

// New returns a controller in the initial loading state. No fetch is made
// until Initialize or Refresh.
func New(src ingest.Source, opts ...Option) *Controller {
	c := &Controller{
		src: src,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx: context.Background(),
		obs: nopObserver{},
		now: time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.state = models.ViewState{IsLoading: true}
	return c
}

// Initialize resets the state for defaultPeriod and starts the first fetch.
func (c *Controller) Initialize(defaultPeriod models.Period) <-chan struct{} {
	return c.InitializeFilters(models.Filters{Period: defaultPeriod})
}

// InitializeFilters is Initialize with a full filter set.
func (c *Controller) InitializeFilters(f models.Filters) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = models.ViewState{
		IsLoading:      true,
		SelectedPeriod: f.Period,
		Filters:        f,
	}
	return c.startLocked()
}

// SetPeriod refetches when p differs from the selected period. Choosing a
// period drops any custom inicio/fim range, otherwise the range would keep
// winning over p. The bool reports whether a fetch was started.
func (c *Controller) SetPeriod(p models.Period) (<-chan struct{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == c.state.SelectedPeriod && c.state.Filters.Start == "" && c.state.Filters.End == "" {
		return closed(), false
	}
	c.state.SelectedPeriod = p
	c.state.Filters.Period = p
	c.state.Filters.Start, c.state.Filters.End = "", ""
	return c.startLocked(), true
}

// SetFilters replaces the whole filter set, refetching only on change.
func (c *Controller) SetFilters(f models.Filters) (<-chan struct{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f == c.state.Filters {
		return closed(), false
	}
	c.state.Filters = f
	c.state.SelectedPeriod = f.Period
	return c.startLocked(), true
}

// Refresh refetches with the current filters. The returned channel is closed
// once this fetch has settled and its result, if kept, is visible in State.
func (c *Controller) Refresh() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked()
}

// State returns a copy of the current view state.
func (c *Controller) State() models.ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Ready reports whether any fetch has settled yet.
func (c *Controller) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settled
}

func (c *Controller) startLocked() <-chan struct{} {
	c.seq++
	seq := c.seq
	filters := c.state.Filters
	c.state.IsLoading = true
	c.state.ErrorMessage = ""
	c.obs.Loading(true)
	c.log.Debug("refresh started", slog.Uint64("seq", seq), slog.String("periodo", string(filters.Period)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		res := c.src.Fetch(c.ctx, filters)
		c.settle(seq, filters, res)
	}()
	return done
}

func (c *Controller) settle(seq uint64, filters models.Filters, res models.FetchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.discardStale && seq != c.seq {
		c.obs.StaleDiscarded()
		c.log.Debug("stale settlement discarded", slog.Uint64("seq", seq), slog.Uint64("latest", c.seq))
		return
	}
	c.settled = true
	c.state.IsLoading = false
	c.obs.Loading(false)
	if !res.OK() {
		// el snapshot anterior se mantiene visible
		c.state.ErrorMessage = res.Reason()
		c.log.Debug("refresh failed", slog.Uint64("seq", seq), slog.String("reason", res.Reason()))
		return
	}
	c.state.Snapshot = res.Snapshot()
	c.state.SnapshotFilters = filters
	c.state.ErrorMessage = ""
	c.state.UpdatedAt = c.now()
	c.log.Debug("refresh applied", slog.Uint64("seq", seq), slog.String("periodo", string(filters.Period)))
}

func closed() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
