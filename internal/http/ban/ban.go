// Package ban tracks clients that keep hitting the rate limit and blocks them
// for a while once they collect enough strikes.
package ban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DailyBanLogKey = "ratelimit:banlog:daily"
	strikePrefix   = "ratelimit:strikes:"
	bannedPrefix   = "ratelimit:banned:"
)

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

// Tracker keeps strikes and bans in Redis when a client is given, otherwise
// in process.
type Tracker struct {
	rdb        *redis.Client
	maxStrikes int
	duration   time.Duration
	log        *zap.Logger
	now        func() time.Time

	mu      sync.Mutex
	strikes map[string]int
	banned  map[string]time.Time
	entries []BanLogEntry
}

func NewTracker(rdb *redis.Client, maxStrikes int, duration time.Duration, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		rdb:        rdb,
		maxStrikes: maxStrikes,
		duration:   duration,
		log:        log.Named("ban"),
		now:        time.Now,
		strikes:    map[string]int{},
		banned:     map[string]time.Time{},
	}
}

// IsBanned reports whether target is currently blocked.
func (t *Tracker) IsBanned(ctx context.Context, target string) (bool, error) {
	if t.rdb != nil {
		n, err := t.rdb.Exists(ctx, bannedPrefix+target).Result()
		return n > 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	until, ok := t.banned[target]
	if ok && !t.now().Before(until) {
		delete(t.banned, target)
		return false, nil
	}
	return ok, nil
}

// Strike records one rate-limit violation. Strikes expire after the ban
// duration. Reaching the limit bans target and returns true.
func (t *Tracker) Strike(ctx context.Context, target, route string) (bool, error) {
	strikes, err := t.incr(ctx, target)
	if err != nil {
		return false, err
	}
	if strikes < t.maxStrikes {
		return false, nil
	}

	if err := t.ban(ctx, target); err != nil {
		return false, err
	}
	t.log.Warn("client banned",
		zap.String("target", target),
		zap.String("route", route),
		zap.Int("strikes", strikes),
		zap.Duration("duration", t.duration),
	)
	return true, t.logBanEvent(ctx, BanLogEntry{Target: target, Route: route, Strikes: strikes, Time: t.now()})
}

func (t *Tracker) incr(ctx context.Context, target string) (int, error) {
	if t.rdb != nil {
		key := strikePrefix + target
		pipe := t.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, t.duration)
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, fmt.Errorf("failed to record strike: %w", err)
		}
		return int(incr.Val()), nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.strikes[target]++
	return t.strikes[target], nil
}

func (t *Tracker) ban(ctx context.Context, target string) error {
	if t.rdb != nil {
		pipe := t.rdb.TxPipeline()
		pipe.Set(ctx, bannedPrefix+target, 1, t.duration)
		pipe.Del(ctx, strikePrefix+target)
		_, err := pipe.Exec(ctx)
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.banned[target] = t.now().Add(t.duration)
	delete(t.strikes, target)
	return nil
}

func (t *Tracker) logBanEvent(ctx context.Context, entry BanLogEntry) error {
	if t.rdb != nil {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return t.rdb.RPush(ctx, DailyBanLogKey, data).Err()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
	return nil
}

// Summary aggregates a day of bans.
type Summary struct {
	Total    int            `json:"total"`
	ByRoute  map[string]int `json:"by_route"`
	ByTarget map[string]int `json:"by_target"`
	Entries  []BanLogEntry  `json:"entries"`
}

// DrainDailySummary reads and clears the ban log.
func (t *Tracker) DrainDailySummary(ctx context.Context) (Summary, error) {
	entries, err := t.drain(ctx)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{ByRoute: map[string]int{}, ByTarget: map[string]int{}, Entries: entries}
	for _, e := range entries {
		s.Total++
		s.ByRoute[e.Route]++
		s.ByTarget[e.Target]++
	}
	sort.Slice(s.Entries, func(i, j int) bool { return s.Entries[i].Time.Before(s.Entries[j].Time) })
	return s, nil
}

func (t *Tracker) drain(ctx context.Context) ([]BanLogEntry, error) {
	if t.rdb == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		entries := t.entries
		t.entries = nil
		if entries == nil {
			entries = []BanLogEntry{}
		}
		return entries, nil
	}

	pipe := t.rdb.TxPipeline()
	lrange := pipe.LRange(ctx, DailyBanLogKey, 0, -1)
	pipe.Del(ctx, DailyBanLogKey)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read ban log: %w", err)
	}

	entries := []BanLogEntry{}
	for _, item := range lrange.Val() {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// LogDailySummary drains the ban log and writes it out as one log line.
func (t *Tracker) LogDailySummary(ctx context.Context) {
	s, err := t.DrainDailySummary(ctx)
	if err != nil {
		t.log.Error("daily ban summary failed", zap.Error(err))
		return
	}
	if s.Total == 0 {
		return
	}
	t.log.Info("daily ban summary",
		zap.Int("total", s.Total),
		zap.Any("by_route", s.ByRoute),
		zap.Any("by_target", s.ByTarget),
	)
}
