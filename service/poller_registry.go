package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"floorwatch/api/floor"
	"floorwatch/config"
	"floorwatch/dao/redis"
	"floorwatch/models"
)

type pollerEntry struct {
	poller   *DashboardPoller
	cancel   context.CancelFunc
	done     chan struct{}
	lastRead time.Time
}

// PollerRegistry runs one DashboardPoller per view and filter. Pollers start
// on first use and stop after sitting unread for the idle timeout.
type PollerRegistry struct {
	api         floor.FloorAPI
	dao         *redis.RedisDashboardDAO
	base        *zap.Logger
	logger      *zap.Logger
	idleTimeout time.Duration
	now         func() time.Time

	mu      sync.Mutex
	ctx     context.Context
	pollers map[string]*pollerEntry
}

// NewPollerRegistry creates an empty registry. Pollers are bound to ctx and
// stop when it is done.
func NewPollerRegistry(
	ctx context.Context,
	floorAPI floor.FloorAPI,
	dao *redis.RedisDashboardDAO,
	idleTimeout time.Duration,
	logger *zap.Logger,
) *PollerRegistry {
	return &PollerRegistry{
		api:         floorAPI,
		dao:         dao,
		base:        logger,
		logger:      logger.Named("PollerRegistry"),
		idleTimeout: idleTimeout,
		now:         time.Now,
		ctx:         ctx,
		pollers:     make(map[string]*pollerEntry),
	}
}

func registryKey(view string, filter models.DashboardFilter) string {
	return view + "@" + filter.Key()
}

// Get returns the running poller for view and filter, starting one if
// needed, and marks it as read.
func (r *PollerRegistry) Get(view config.ViewConfig, filter models.DashboardFilter) *DashboardPoller {
	key := registryKey(view.Name, filter)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.pollers[key]; ok {
		e.lastRead = r.now()
		return e.poller
	}

	p := NewDashboardPoller(view, filter, r.api, r.dao, r.base)
	ctx, cancel := context.WithCancel(r.ctx)
	e := &pollerEntry{poller: p, cancel: cancel, done: make(chan struct{}), lastRead: r.now()}
	r.pollers[key] = e
	go func() {
		defer close(e.done)
		p.Run(ctx)
	}()
	r.logger.Info("started poller", zap.String("key", key))
	return p
}

// Lookup returns the poller for view and filter without starting one.
func (r *PollerRegistry) Lookup(view string, filter models.DashboardFilter) (*DashboardPoller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pollers[registryKey(view, filter)]
	if !ok {
		return nil, false
	}
	e.lastRead = r.now()
	return e.poller, true
}

// Retarget moves the view's poller from one filter to another without
// restarting its loop. When a poller for the target already runs, that one
// is returned and the old poller is left for the reaper.
func (r *PollerRegistry) Retarget(view config.ViewConfig, from, to models.DashboardFilter) *DashboardPoller {
	fromKey, toKey := registryKey(view.Name, from), registryKey(view.Name, to)

	r.mu.Lock()
	if e, ok := r.pollers[toKey]; ok {
		e.lastRead = r.now()
		r.mu.Unlock()
		return e.poller
	}
	e, ok := r.pollers[fromKey]
	if !ok {
		r.mu.Unlock()
		return r.Get(view, to)
	}
	delete(r.pollers, fromKey)
	e.lastRead = r.now()
	r.pollers[toKey] = e
	r.mu.Unlock()

	e.poller.SetFilter(to)
	r.logger.Info("retargeted poller", zap.String("from", fromKey), zap.String("to", toKey))
	return e.poller
}

// Len is the number of running pollers.
func (r *PollerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pollers)
}

// Reap stops every poller unread for longer than the idle timeout and
// returns how many were stopped. A filter whose last poller stops has its
// cache dropped.
func (r *PollerRegistry) Reap() int {
	if r.idleTimeout <= 0 {
		return 0
	}
	now := r.now()

	r.mu.Lock()
	var idle []*pollerEntry
	for key, e := range r.pollers {
		if now.Sub(e.lastRead) > r.idleTimeout {
			idle = append(idle, e)
			delete(r.pollers, key)
			r.logger.Info("stopping idle poller", zap.String("key", key))
		}
	}
	r.mu.Unlock()

	for _, e := range idle {
		e.cancel()
		<-e.done
	}

	live := r.liveFilterKeys()
	for _, e := range idle {
		filterKey := e.poller.Filter().Key()
		if live[filterKey] {
			continue
		}
		live[filterKey] = true
		if err := r.dao.DeleteFilter(filterKey); err != nil {
			r.logger.Warn("failed to drop filter cache", zap.String("filter", filterKey), zap.Error(err))
		}
	}
	return len(idle)
}

func (r *PollerRegistry) liveFilterKeys() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	live := make(map[string]bool, len(r.pollers))
	for _, e := range r.pollers {
		live[e.poller.Filter().Key()] = true
	}
	return live
}

// PurgeOrphans drops the cache of every filter that no running poller reads,
// such as the old filter of a retargeted poller, and returns how many were
// dropped.
func (r *PollerRegistry) PurgeOrphans() (int, error) {
	cached, err := r.dao.ListCachedFilterKeys()
	if err != nil {
		return 0, err
	}
	live := r.liveFilterKeys()
	purged := 0
	for _, filterKey := range cached {
		if live[filterKey] {
			continue
		}
		if err := r.dao.DeleteFilter(filterKey); err != nil {
			return purged, err
		}
		purged++
	}
	if purged > 0 {
		r.logger.Info("dropped orphaned filter caches", zap.Int("count", purged))
	}
	return purged, nil
}

// StartReaper reaps idle pollers and orphaned caches every interval until
// ctx is done. It blocks; run it in its own goroutine.
func (r *PollerRegistry) StartReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reap()
			if _, err := r.PurgeOrphans(); err != nil {
				r.logger.Warn("failed to purge orphaned caches", zap.Error(err))
			}
		}
	}
}

// StopAll stops every poller and waits for them to return.
func (r *PollerRegistry) StopAll() {
	r.mu.Lock()
	entries := make([]*pollerEntry, 0, len(r.pollers))
	for key, e := range r.pollers {
		entries = append(entries, e)
		delete(r.pollers, key)
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.cancel()
		<-e.done
	}
}
