// Package limiter bounds outbound calls to the metered completion API using
// two independently-windowed fixed counters: one per calendar day, one per
// 60-second window.
package limiter

import (
	"sync"
	"time"
)

// Reason identifies which ceiling rejected an acquire attempt.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonDaily
	ReasonMinute
)

func (r Reason) String() string {
	switch r {
	case ReasonDaily:
		return "daily"
	case ReasonMinute:
		return "minute"
	default:
		return "none"
	}
}

// Day keys use the UTC calendar date so the daily window is stable across
// local timezone changes.
const dayFormat = "2006-01-02"

// FixedWindow is a two-tier fixed-window counter. Both windows reset entirely
// when their time boundary is crossed; there is no sliding or token refill.
// All methods are safe for concurrent use.
type FixedWindow struct {
	mu  sync.Mutex
	now func() time.Time

	maxPerDay    int
	maxPerMinute int

	dailyCount int
	currentDay string

	minuteCount       int
	minuteWindowStart time.Time
}

// New returns a limiter with the given per-day and per-minute ceilings.
func New(maxPerDay, maxPerMinute int) *FixedWindow {
	return newWithClock(maxPerDay, maxPerMinute, time.Now)
}

func newWithClock(maxPerDay, maxPerMinute int, clock func() time.Time) *FixedWindow {
	now := clock()
	return &FixedWindow{
		now:               clock,
		maxPerDay:         maxPerDay,
		maxPerMinute:      maxPerMinute,
		currentDay:        now.UTC().Format(dayFormat),
		minuteWindowStart: now,
	}
}

// Acquire reports whether one call to the metered API may proceed. Both
// windows roll over before any limit comparison. On acceptance both counters
// are incremented under the same lock, so two concurrent requests can never
// share the last remaining slot. Rejections increment nothing. The daily
// ceiling is checked first, so a request over both limits reports ReasonDaily.
func (l *FixedWindow) Acquire() (bool, Reason) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.rollover(now)

	if l.dailyCount >= l.maxPerDay {
		return false, ReasonDaily
	}
	if l.minuteCount >= l.maxPerMinute {
		return false, ReasonMinute
	}
	l.dailyCount++
	l.minuteCount++
	return true, ReasonNone
}

// rollover resets whichever windows have expired. Caller must hold l.mu.
func (l *FixedWindow) rollover(now time.Time) {
	if today := now.UTC().Format(dayFormat); today != l.currentDay {
		l.currentDay = today
		l.dailyCount = 0
	}
	if now.Sub(l.minuteWindowStart) >= time.Minute {
		l.minuteWindowStart = now
		l.minuteCount = 0
	}
}

// Snapshot is a point-in-time view of the counter state.
type Snapshot struct {
	Day         string
	DailyCount  int
	DailyLimit  int
	MinuteCount int
	MinuteLimit int
}

// Snapshot returns the current counter state for diagnostics. It does not
// roll windows over, so counts may belong to an already-expired window.
func (l *FixedWindow) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Day:         l.currentDay,
		DailyCount:  l.dailyCount,
		DailyLimit:  l.maxPerDay,
		MinuteCount: l.minuteCount,
		MinuteLimit: l.maxPerMinute,
	}
}
