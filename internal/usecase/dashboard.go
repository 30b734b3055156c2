package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"CryptoSeason/internal/domain/models"
	domrepo "CryptoSeason/internal/domain/repository"
	domsvc "CryptoSeason/internal/domain/service"
	"CryptoSeason/internal/presenter"
	"CryptoSeason/internal/services/analytics"
	"CryptoSeason/internal/services/stats"
	applogger "CryptoSeason/pkg/logger"
	"CryptoSeason/pkg/metrics"
)

var (
	// ErrDashboardClosed is returned by operations on a closed Dashboard.
	ErrDashboardClosed = errors.New("dashboard closed")
	// ErrDashboardNotStarted is returned by Refresh before Start.
	ErrDashboardNotStarted = errors.New("dashboard not started")
)

const (
	subscriberBuffer = 4
	sinkTimeout      = 10 * time.Second
)

// Dashboard owns the view state: selected asset, records, loading flag and
// error message. State changes only through select-asset, fetch-start,
// fetch-success and fetch-failure.
//
// Selecting while a fetch is in flight cancels that fetch; its completion is
// discarded by generation, so the newest selection always wins.
type Dashboard struct {
	fetcher domsvc.SeasonFetcher
	assets  *models.AssetSet
	sink    domrepo.SnapshotSink
	metrics domrepo.Metrics
	log     *applogger.Logger
	now     func() time.Time

	mu        sync.Mutex
	selected  models.Asset
	records   []models.YearRecord
	loading   bool
	errMsg    string
	gen       uint64
	updatedAt time.Time
	cancel    context.CancelFunc
	base      context.Context
	stop      context.CancelFunc
	closed    bool
	subs      map[int]chan models.DashboardView
	nextSub   int

	wg sync.WaitGroup
}

// DashboardOption configures Dashboard.
type DashboardOption func(*Dashboard)

func WithAssets(s *models.AssetSet) DashboardOption {
	return func(d *Dashboard) {
		if s != nil {
			d.assets = s
		}
	}
}

// WithDefaultAsset sets the selection used before any SelectAsset call.
func WithDefaultAsset(a models.Asset) DashboardOption {
	return func(d *Dashboard) { d.selected = a }
}

func WithSink(s domrepo.SnapshotSink) DashboardOption {
	return func(d *Dashboard) {
		if s != nil {
			d.sink = s
		}
	}
}

func WithDashboardMetrics(m domrepo.Metrics) DashboardOption {
	return func(d *Dashboard) {
		if m != nil {
			d.metrics = m
		}
	}
}

func WithDashboardLogger(l *applogger.Logger) DashboardOption {
	return func(d *Dashboard) {
		if l != nil {
			d.log = l
		}
	}
}

func WithClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) { d.now = now }
}

// NewDashboard creates a dashboard. No request is issued until Start.
func NewDashboard(fetcher domsvc.SeasonFetcher, opts ...DashboardOption) (*Dashboard, error) {
	d := &Dashboard{
		fetcher:  fetcher,
		assets:   models.DefaultAssetSet(),
		sink:     domrepo.NopSink{},
		metrics:  metrics.Nop{},
		log:      applogger.Nop(),
		now:      time.Now,
		selected: models.DefaultAsset,
		subs:     make(map[int]chan models.DashboardView),
	}
	for _, opt := range opts {
		opt(d)
	}
	if !d.assets.Contains(d.selected) {
		return nil, fmt.Errorf("%w: default asset %s is not selectable", models.ErrInvalidAsset, d.selected)
	}
	d.log = d.log.Component("dashboard")
	d.updatedAt = d.now()
	return d, nil
}

// Assets lists the selectable assets in display order.
func (d *Dashboard) Assets() []models.AssetInfo {
	return d.assets.Infos()
}

// Resolve validates a symbol against the selectable assets.
func (d *Dashboard) Resolve(symbol string) (models.Asset, error) {
	return d.assets.Resolve(symbol)
}

// Start issues the first fetch for the current selection. Fetches run under
// ctx; cancelling it has the same effect as Close on in-flight requests.
func (d *Dashboard) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDashboardClosed
	}
	if d.base != nil {
		return errors.New("dashboard already started")
	}
	d.base, d.stop = context.WithCancel(ctx)
	d.beginFetchLocked(false)
	return nil
}

// SelectAsset changes the selection and fetches its data. Selecting the
// asset that is already shown or loading is a no-op; selecting it again
// after a failure retries. Every fetch it starts bypasses cached results.
func (d *Dashboard) SelectAsset(symbol string) (models.DashboardView, error) {
	a, err := d.assets.Resolve(symbol)
	if err != nil {
		return models.DashboardView{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stoppedLocked() {
		return models.DashboardView{}, ErrDashboardClosed
	}
	if a == d.selected && d.errMsg == "" && (d.loading || d.records != nil) {
		return d.viewLocked(), nil
	}

	d.log.Info("asset selected", applogger.String("asset", a.String()), applogger.String("previous", d.selected.String()))
	d.selected = a
	d.records = nil
	if d.base != nil {
		d.beginFetchLocked(true)
	} else {
		d.touchLocked()
	}
	return d.viewLocked(), nil
}

// Refresh refetches the current selection unconditionally, bypassing
// cached results.
func (d *Dashboard) Refresh() (models.DashboardView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stoppedLocked() {
		return models.DashboardView{}, ErrDashboardClosed
	}
	if d.base == nil {
		return models.DashboardView{}, ErrDashboardNotStarted
	}
	d.log.Info("refresh requested", applogger.String("asset", d.selected.String()))
	d.beginFetchLocked(true)
	return d.viewLocked(), nil
}

// stoppedLocked reports whether Close was called or the Start context ended.
func (d *Dashboard) stoppedLocked() bool {
	return d.closed || (d.base != nil && d.base.Err() != nil)
}

// View returns a copy of the current state with derived values.
func (d *Dashboard) View() models.DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

// Subscribe returns a channel receiving the view after every transition,
// starting with the current one. A slow reader misses intermediate views
// but always gets the latest. The returned func unsubscribes.
func (d *Dashboard) Subscribe() (<-chan models.DashboardView, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch := make(chan models.DashboardView, subscriberBuffer)
	if d.closed {
		close(ch)
		return ch, func() {}
	}
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch
	ch <- d.viewLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			if c, ok := d.subs[id]; ok {
				delete(d.subs, id)
				close(c)
			}
		})
	}
}

// Wait blocks until all started fetches have returned.
func (d *Dashboard) Wait() {
	d.wg.Wait()
}

// Close cancels in-flight fetches, waits for them and closes subscriptions.
func (d *Dashboard) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	if d.cancel != nil {
		d.cancel()
	}
	if d.stop != nil {
		d.stop()
	}
	d.mu.Unlock()

	d.wg.Wait()

	d.mu.Lock()
	for id, ch := range d.subs {
		delete(d.subs, id)
		close(ch)
	}
	d.mu.Unlock()
	return nil
}

// beginFetchLocked is the fetch-start transition. A fresh fetch invalidates
// the asset in the fetcher first, when the fetcher supports it.
func (d *Dashboard) beginFetchLocked(fresh bool) {
	if d.cancel != nil {
		d.cancel()
	}
	d.gen++
	gen, asset := d.gen, d.selected

	ctx, cancel := context.WithCancel(d.base)
	d.cancel = cancel
	d.loading = true
	d.errMsg = ""
	d.touchLocked()

	d.wg.Add(1)
	go d.fetch(ctx, cancel, gen, asset, fresh)
}

func (d *Dashboard) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, asset models.Asset, fresh bool) {
	defer d.wg.Done()
	defer cancel()

	if inv, ok := d.fetcher.(domsvc.SeasonInvalidator); ok && fresh {
		if err := inv.Invalidate(ctx, asset); err != nil && ctx.Err() == nil {
			d.log.Warn("cache invalidation failed", applogger.String("asset", asset.String()), applogger.Error(err))
		}
	}

	records, err := d.fetcher.Fetch(ctx, asset)
	if err != nil {
		d.finishFailure(gen, asset, err)
		return
	}
	d.finishSuccess(ctx, gen, asset, records)
}

func (d *Dashboard) finishSuccess(ctx context.Context, gen uint64, asset models.Asset, records []models.YearRecord) {
	d.mu.Lock()
	if gen != d.gen || d.closed {
		d.mu.Unlock()
		d.log.Debug("discarding superseded result", applogger.String("asset", asset.String()))
		return
	}
	if records == nil {
		records = []models.YearRecord{}
	}
	d.records = records
	d.loading = false
	d.errMsg = ""
	d.touchLocked()
	summary := stats.Summarize(records)
	snap := &models.Snapshot{Asset: asset, FetchedAt: d.updatedAt, Records: records, Summary: summary}
	d.mu.Unlock()

	d.metrics.RecordSummary(asset.String(), summary)

	// a newer selection must not abort archiving of this one
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	if err := d.sink.Save(sctx, snap); err != nil {
		d.metrics.RecordError("sink")
		d.log.Warn("snapshot not archived", applogger.String("asset", asset.String()), applogger.Error(err))
	}
}

func (d *Dashboard) finishFailure(gen uint64, asset models.Asset, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen || d.closed {
		return
	}
	d.records = nil
	d.loading = false
	if !(errors.Is(err, context.Canceled) && d.base.Err() != nil) {
		d.errMsg = userMessage(err)
	}
	d.touchLocked()
	d.log.Debug("fetch failed", applogger.String("asset", asset.String()), applogger.Error(err))
}

// touchLocked stamps the state and fans the new view out to subscribers.
func (d *Dashboard) touchLocked() {
	d.updatedAt = d.now()
	if len(d.subs) == 0 {
		return
	}
	v := d.viewLocked()
	for _, ch := range d.subs {
		publish(ch, v)
	}
}

// publish delivers v without blocking, dropping the oldest queued view if
// the buffer is full.
func publish(ch chan models.DashboardView, v models.DashboardView) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (d *Dashboard) viewLocked() models.DashboardView {
	v := models.DashboardView{
		Assets:     d.assets.Infos(),
		Selected:   d.selected,
		Loading:    d.loading,
		Error:      d.errMsg,
		Generation: d.gen,
		UpdatedAt:  d.updatedAt,
	}
	if d.records != nil {
		v.Records = append([]models.YearRecord(nil), d.records...)
	}
	v.Summary = stats.Summarize(v.Records)
	v.Tiles = presenter.Tiles(v.Summary)
	v.Returns = presenter.ReturnBars(v.Records)
	v.Risk = presenter.RiskLines(v.Records)
	return v
}

func userMessage(err error) string {
	if analytics.IsFetchError(err) {
		return err.Error()
	}
	return analytics.FetchFailedMessage
}
