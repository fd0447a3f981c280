package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"floorwatch/api"
	"floorwatch/api/floor"
	"floorwatch/config"
	"floorwatch/dao/redis"
	"floorwatch/metrics"
	"floorwatch/models"
	"floorwatch/pool"
	"floorwatch/segment"
)

// Poll sources. Each one is fetched and applied independently.
const (
	SourceSegments = "segments"
	SourceHeaders  = "headers"
	SourceMedia    = "styleMedia"
	SourceWip      = "wip"
	SourceVariance = "variance"
)

var allSources = []string{SourceSegments, SourceHeaders, SourceMedia, SourceWip, SourceVariance}

// generation tracks the in-flight fetch of one source. Only the fetch
// holding the current generation, started for the current filter, may
// write its result.
type generation struct {
	id     uint64
	filter models.DashboardFilter
	cancel context.CancelFunc
}

// DashboardPoller keeps the cached dashboard state of one view and filter
// fresh by polling the floor backend.
type DashboardPoller struct {
	view   config.ViewConfig
	api    floor.FloorAPI
	dao    *redis.RedisDashboardDAO
	pool   *pool.Pool
	logger *zap.Logger

	mu        sync.Mutex
	filter    models.DashboardFilter
	tick      int
	visible   bool
	displayed string
	order     []string
	gens      map[string]*generation

	nudge    chan struct{}
	selected chan struct{}
	inflight sync.WaitGroup
}

// NewDashboardPoller constructs a poller for view and filter. It does not
// start polling; call Run or drive Tick directly.
func NewDashboardPoller(
	view config.ViewConfig,
	filter models.DashboardFilter,
	floorAPI floor.FloorAPI,
	dao *redis.RedisDashboardDAO,
	logger *zap.Logger,
) *DashboardPoller {
	view = view.Normalized()
	gens := make(map[string]*generation, len(allSources))
	for _, s := range allSources {
		gens[s] = &generation{}
	}
	return &DashboardPoller{
		view:     view,
		api:      floorAPI,
		dao:      dao,
		pool:     pool.New(view.WipConcurrency),
		logger:   logger.Named("DashboardPoller").With(zap.String("view", view.Name)),
		filter:   filter,
		visible:  true,
		gens:     gens,
		nudge:    make(chan struct{}, 1),
		selected: make(chan struct{}, 1),
	}
}

// View returns the poller's view configuration.
func (p *DashboardPoller) View() config.ViewConfig { return p.view }

// Filter returns the current filter.
func (p *DashboardPoller) Filter() models.DashboardFilter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// Displayed returns the segment key shown by single-card views.
func (p *DashboardPoller) Displayed() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.displayed
}

// Visible reports whether scheduled ticks do any work.
func (p *DashboardPoller) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Run polls until ctx is done. Ticks run concurrently with each other; a
// new fetch of a source supersedes the previous one.
func (p *DashboardPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.view.PollInterval)
	defer ticker.Stop()

	var slide <-chan time.Time
	if p.view.SlideInterval > 0 {
		slideTicker := time.NewTicker(p.view.SlideInterval)
		defer slideTicker.Stop()
		slide = slideTicker.C
	}

	defer p.inflight.Wait()
	defer p.cancelAll()

	p.logger.Info("starting poller", zap.Duration("interval", p.view.PollInterval))
	p.spawn(ctx, p.runTick)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping poller")
			return
		case <-ticker.C:
			p.spawn(ctx, p.runTick)
		case <-p.nudge:
			p.spawn(ctx, p.runTick)
		case <-p.selected:
			p.spawn(ctx, p.runDisplayed)
		case <-slide:
			if p.Visible() && p.Advance() != "" {
				p.spawn(ctx, p.runDisplayed)
			}
		}
	}
}

func (p *DashboardPoller) spawn(ctx context.Context, fn func(context.Context)) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		fn(ctx)
	}()
}

func (p *DashboardPoller) runTick(ctx context.Context) {
	if err := p.Tick(ctx); err != nil {
		p.logger.Warn("tick finished with errors", zap.Error(err))
	}
}

func (p *DashboardPoller) runDisplayed(ctx context.Context) {
	if err := p.RefreshDisplayed(ctx); err != nil {
		p.logger.Warn("displayed segment refresh failed", zap.Error(err))
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Focus requests an immediate extra tick.
func (p *DashboardPoller) Focus() {
	signal(p.nudge)
}

// SetVisible pauses scheduled tick work while hidden. Becoming visible
// again triggers an immediate tick.
func (p *DashboardPoller) SetVisible(visible bool) {
	p.mu.Lock()
	was := p.visible
	p.visible = visible
	p.mu.Unlock()

	if visible && !was {
		p.Focus()
	}
}

// SetFilter switches the poller to a new filter. Every in-flight fetch is
// cancelled and the next tick reloads all sources.
func (p *DashboardPoller) SetFilter(filter models.DashboardFilter) {
	p.mu.Lock()
	p.filter = filter
	p.tick = 0
	p.displayed = ""
	p.order = nil
	for _, g := range p.gens {
		g.id++
		if g.cancel != nil {
			g.cancel()
			g.cancel = nil
		}
	}
	p.mu.Unlock()

	p.logger.Info("filter changed", zap.String("to", filter.Key()))
	p.Focus()
}

// Select shows key on single-card views and refreshes its WIP and variance.
func (p *DashboardPoller) Select(key string) error {
	key = segment.Normalize(key)
	p.mu.Lock()
	found := false
	for _, k := range p.order {
		if k == key {
			found = true
			break
		}
	}
	if found {
		p.displayed = key
	}
	p.mu.Unlock()

	if !found {
		return fmt.Errorf("segment %q is not on the dashboard", key)
	}
	signal(p.selected)
	return nil
}

// Advance moves the displayed segment to the next one in dashboard order,
// wrapping around, and returns it.
func (p *DashboardPoller) Advance() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.order) == 0 {
		p.displayed = ""
		return ""
	}
	next := 0
	for i, k := range p.order {
		if k == p.displayed {
			next = (i + 1) % len(p.order)
			break
		}
	}
	p.displayed = p.order[next]
	return p.displayed
}

// begin starts a new generation of source for filter, cancelling the
// previous one. A filter that is no longer the poller's gets an already
// cancelled context and leaves the live generation alone.
func (p *DashboardPoller) begin(parent context.Context, source string, filter models.DashboardFilter) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)
	p.mu.Lock()
	defer p.mu.Unlock()
	if filter != p.filter {
		cancel()
		return ctx, 0
	}
	g := p.gens[source]
	if g.cancel != nil {
		g.cancel()
	}
	g.id++
	g.filter = filter
	g.cancel = cancel
	return ctx, g.id
}

// end releases the generation's context if it is still current.
func (p *DashboardPoller) end(source string, id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g := p.gens[source]
	if g.id == id && g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// current reports whether id is still the live generation of source.
// Callers hold p.mu.
func (p *DashboardPoller) current(ctx context.Context, source string, id uint64) bool {
	g := p.gens[source]
	return ctx.Err() == nil && g.id == id && g.filter == p.filter
}

// apply runs write under the poller lock when generation id of source is
// still current. Stale or cancelled results are dropped.
func (p *DashboardPoller) apply(ctx context.Context, source string, id uint64, write func() error) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.current(ctx, source, id) {
		return false, nil
	}
	return true, write()
}

func (p *DashboardPoller) cancelAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, g := range p.gens {
		if g.cancel != nil {
			g.cancel()
			g.cancel = nil
		}
	}
}

// fail records err as the source's banner unless it is an abort or the
// generation has moved on.
func (p *DashboardPoller) fail(ctx context.Context, filterKey, source string, id uint64, err error) error {
	if api.IsAbort(err) {
		p.logger.Debug("fetch aborted", zap.String("source", source))
		return nil
	}
	applied, _ := p.apply(ctx, source, id, func() error {
		return p.dao.SetStatus(filterKey, source, redis.SourceStatus{
			Error:     api.UserMessage(err, "Failed to load "+source),
			UpdatedAt: time.Now(),
		})
	})
	if !applied {
		return nil
	}
	p.logger.Warn("fetch failed", zap.String("source", source), zap.Error(err))
	return fmt.Errorf("%s: %w", source, err)
}

func (p *DashboardPoller) ok(filterKey, source string) error {
	return p.dao.SetStatus(filterKey, source, redis.SourceStatus{UpdatedAt: time.Now()})
}

// Tick runs one poll iteration and returns once every source scheduled for
// it has finished. Hidden pollers skip the work. The returned error is the
// first source failure; aborted fetches are not failures.
func (p *DashboardPoller) Tick(ctx context.Context) error {
	p.mu.Lock()
	if !p.visible {
		p.mu.Unlock()
		p.logger.Debug("hidden, skipping tick")
		return nil
	}
	tick := p.tick
	p.tick++
	filter := p.filter
	p.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error { return p.refreshSegments(ctx, filter, tick) })
	if tick%p.view.HeaderEvery == 0 {
		g.Go(func() error { return p.refreshHeaders(ctx, filter) })
	}
	if tick%p.view.MediaEvery == 0 {
		g.Go(func() error { return p.refreshStyleMedia(ctx, filter) })
	}
	err := g.Wait()

	// Variance runs last so it sees this tick's segments and headers.
	if verr := p.refreshVariance(ctx, filter); err == nil {
		err = verr
	}
	return err
}

// refreshSegments replaces the segment list, then refreshes WIP from the
// fresh list.
func (p *DashboardPoller) refreshSegments(ctx context.Context, filter models.DashboardFilter, tick int) error {
	filterKey := filter.Key()
	sctx, id := p.begin(ctx, SourceSegments, filter)
	defer p.end(SourceSegments, id)

	segments, err := p.api.GetDashboard(sctx, filter)
	if err != nil {
		return p.fail(sctx, filterKey, SourceSegments, id, err)
	}
	segment.SortSegments(segments)

	applied, err := p.apply(sctx, SourceSegments, id, func() error {
		p.order = make([]string, len(segments))
		for i, s := range segments {
			p.order[i] = segment.KeyOf(s)
		}
		p.keepDisplayedLocked()
		if err := p.dao.SetSegments(filterKey, segments); err != nil {
			return err
		}
		return p.ok(filterKey, SourceSegments)
	})
	if err != nil {
		return fmt.Errorf("failed to cache segments: %w", err)
	}
	if !applied {
		return nil
	}
	p.logger.Debug("segments refreshed", zap.Int("count", len(segments)), zap.Int("tick", tick))

	if p.view.WipMode == config.WipSingle {
		return p.refreshDisplayedWip(ctx, filter, tick%p.view.WipEvery == 0)
	}
	if tick%p.view.WipEvery != 0 {
		return nil
	}
	return p.refreshAllWip(ctx, filter, segments)
}

// keepDisplayedLocked keeps the displayed key valid against p.order.
// Single-card views fall back to the first segment.
func (p *DashboardPoller) keepDisplayedLocked() {
	for _, k := range p.order {
		if k == p.displayed {
			return
		}
	}
	p.displayed = ""
	if p.view.WipMode == config.WipSingle && len(p.order) > 0 {
		p.displayed = p.order[0]
	}
}

// refreshHeaders reduces the header list into a latest-wins map.
func (p *DashboardPoller) refreshHeaders(ctx context.Context, filter models.DashboardFilter) error {
	filterKey := filter.Key()
	hctx, id := p.begin(ctx, SourceHeaders, filter)
	defer p.end(SourceHeaders, id)

	headers, err := p.api.ListHeaders(hctx, filter)
	if err != nil {
		return p.fail(hctx, filterKey, SourceHeaders, id, err)
	}
	byKey := segment.ReduceHeaders(headers)

	_, err = p.apply(hctx, SourceHeaders, id, func() error {
		if err := p.dao.SetHeaders(filterKey, byKey); err != nil {
			return err
		}
		return p.ok(filterKey, SourceHeaders)
	})
	if err != nil {
		return fmt.Errorf("failed to cache headers: %w", err)
	}
	return nil
}

// refreshStyleMedia reduces the media docs into a first-seen-wins map.
func (p *DashboardPoller) refreshStyleMedia(ctx context.Context, filter models.DashboardFilter) error {
	filterKey := filter.Key()
	mctx, id := p.begin(ctx, SourceMedia, filter)
	defer p.end(SourceMedia, id)

	docs, err := p.api.ListStyleMedia(mctx, filter)
	if err != nil {
		return p.fail(mctx, filterKey, SourceMedia, id, err)
	}
	byKey := segment.ReduceStyleMedia(docs)

	_, err = p.apply(mctx, SourceMedia, id, func() error {
		if err := p.dao.SetStyleMedia(filterKey, byKey); err != nil {
			return err
		}
		return p.ok(filterKey, SourceMedia)
	})
	if err != nil {
		return fmt.Errorf("failed to cache style media: %w", err)
	}
	return nil
}

func wipQuery(filter models.DashboardFilter, s models.Segment) models.WipQuery {
	return models.WipQuery{
		Factory:          filter.Factory,
		AssignedBuilding: filter.Building,
		Line:             s.Line,
		Buyer:            s.Buyer,
		Style:            s.Style,
		Date:             filter.Date,
	}
}

// refreshAllWip fans out one WIP request per segment through the pool.
// Each snapshot is cached as soon as it arrives.
func (p *DashboardPoller) refreshAllWip(ctx context.Context, filter models.DashboardFilter, segments []models.Segment) error {
	filterKey := filter.Key()
	wctx, id := p.begin(ctx, SourceWip, filter)
	defer p.end(SourceWip, id)

	tasks := make([]pool.Task, len(segments))
	for i, s := range segments {
		s := s
		tasks[i] = func(ctx context.Context) error {
			wip, err := p.api.GetStyleWip(ctx, wipQuery(filter, s))
			if err != nil {
				return err
			}
			_, err = p.apply(ctx, SourceWip, id, func() error {
				return p.dao.SetWip(filterKey, segment.KeyOf(s), *wip)
			})
			return err
		}
	}

	var firstErr error
	failed := 0
	for _, err := range p.pool.Run(wctx, tasks) {
		if err == nil || api.IsAbort(err) {
			continue
		}
		failed++
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		p.logger.Debug("wip fan-out had failures", zap.Int("failed", failed), zap.Int("total", len(tasks)))
		return p.fail(wctx, filterKey, SourceWip, id, firstErr)
	}
	if _, err := p.apply(wctx, SourceWip, id, func() error { return p.ok(filterKey, SourceWip) }); err != nil {
		return err
	}
	return nil
}

// refreshDisplayedWip fetches WIP for the displayed segment only, when due
// or when it has never been cached.
func (p *DashboardPoller) refreshDisplayedWip(ctx context.Context, filter models.DashboardFilter, due bool) error {
	filterKey := filter.Key()
	s, ok, err := p.displayedSegment(filterKey)
	if err != nil || !ok {
		return err
	}
	key := segment.KeyOf(s)
	if !due {
		_, cached, err := p.dao.GetWip(filterKey, key)
		if err != nil {
			return err
		}
		if cached {
			return nil
		}
	}

	wctx, id := p.begin(ctx, SourceWip, filter)
	defer p.end(SourceWip, id)

	wip, err := p.api.GetStyleWip(wctx, wipQuery(filter, s))
	if err != nil {
		return p.fail(wctx, filterKey, SourceWip, id, err)
	}
	_, err = p.apply(wctx, SourceWip, id, func() error {
		if err := p.dao.SetWip(filterKey, key, *wip); err != nil {
			return err
		}
		return p.ok(filterKey, SourceWip)
	})
	return err
}

// displayedSegment looks the displayed key up in the cached segment list.
func (p *DashboardPoller) displayedSegment(filterKey string) (models.Segment, bool, error) {
	key := p.Displayed()
	if key == "" {
		return models.Segment{}, false, nil
	}
	segments, _, err := p.dao.GetSegments(filterKey)
	if err != nil {
		return models.Segment{}, false, err
	}
	for _, s := range segments {
		if segment.KeyOf(s) == key {
			return s, true, nil
		}
	}
	return models.Segment{}, false, nil
}

// refreshVariance fetches the displayed segment's hourly records, by header
// id when its header is known, else by building, line, date and factory.
func (p *DashboardPoller) refreshVariance(ctx context.Context, filter models.DashboardFilter) error {
	filterKey := filter.Key()
	s, ok, err := p.displayedSegment(filterKey)
	if err != nil || !ok {
		return err
	}
	key := segment.KeyOf(s)

	headers, err := p.dao.GetHeaders(filterKey)
	if err != nil {
		return err
	}
	header, hasHeader := headers[key]

	q := models.VarianceQuery{
		AssignedBuilding: filter.Building,
		Line:             s.Line,
		Date:             filter.Date,
		Factory:          filter.Factory,
	}
	hourlyTarget := 0.0
	if hasHeader {
		q.HeaderID = header.ID
		hourlyTarget = headerHourlyTarget(header)
	}

	vctx, id := p.begin(ctx, SourceVariance, filter)
	defer p.end(SourceVariance, id)

	records, err := p.api.ListHourlyProductions(vctx, q)
	if err != nil {
		return p.fail(vctx, filterKey, SourceVariance, id, err)
	}
	points := metrics.VarianceSeries(records, hourlyTarget)

	_, err = p.apply(vctx, SourceVariance, id, func() error {
		if err := p.dao.SetVariance(filterKey, key, points); err != nil {
			return err
		}
		return p.ok(filterKey, SourceVariance)
	})
	return err
}

// headerHourlyTarget prefers the stored full-day target and falls back to
// the one implied by manpower, hours, SMV and plan efficiency.
func headerHourlyTarget(h models.Header) float64 {
	target := h.TargetFullDay.Float()
	if target <= 0 {
		target = metrics.ComputeTarget(
			h.ManpowerPresent.Float(),
			h.WorkingHour.Float(),
			h.SMV.Float(),
			h.PlanEfficiencyPercent.Float(),
		)
	}
	return metrics.HourlyTarget(target, h.WorkingHour.Float())
}

// RefreshDisplayed refetches WIP (single-card views) and variance for the
// displayed segment outside the tick schedule.
func (p *DashboardPoller) RefreshDisplayed(ctx context.Context) error {
	filter := p.Filter()
	var g errgroup.Group
	if p.view.WipMode == config.WipSingle {
		g.Go(func() error { return p.refreshDisplayedWip(ctx, filter, false) })
	}
	g.Go(func() error { return p.refreshVariance(ctx, filter) })
	return g.Wait()
}
