package store

import (
	"encoding/json"
	"math"
	"sync"
	"time"
)

// Engine owns the record map and the expiry index as one unit of shared
// state. Every exported operation takes the engine mutex, so each command is
// a single atomic step from the caller's point of view: a record mutation and
// its index counterpart are never partially visible. The reaper goroutine
// mutates through the same methods and therefore the same mutex.
type Engine struct {
	mu    sync.Mutex
	data  map[string]*Record
	index *expiryIndex
	now   func() time.Time
}

// New returns an empty engine using the system clock.
func New() *Engine {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty engine reading time from now.
// Tests use it to pin the clock.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{
		data:  make(map[string]*Record),
		index: newExpiryIndex(now().Unix()),
		now:   now,
	}
}

type setOptions struct {
	ttlSeconds int64
}

// Option configures a Set operation.
type Option func(*setOptions)

// WithTTL sets a time-to-live in seconds on the record. Zero (the default)
// means the record is persistent.
func WithTTL(seconds int64) Option {
	return func(o *setOptions) {
		o.ttlSeconds = seconds
	}
}

// Get returns the stored value for key. An expired record is deleted on the
// spot and reported absent: reads never return a logically-expired value,
// whether or not the reaper has caught up.
func (e *Engine) Get(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.data[key]
	if !ok {
		return nil, false
	}
	if r.Expired(e.now()) {
		e.removeLocked(key, r)
		return nil, false
	}
	return r.Value, true
}

// Set creates or overwrites the record for key with WrittenAt = now.
// An overwritten non-persistent record is unsubscribed from the expiry index
// before the new record (if non-persistent) is subscribed under its new
// expiration instant.
func (e *Engine) Set(key string, value any, opts ...Option) {
	o := &setOptions{}
	for _, opt := range opts {
		opt(o)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if old, ok := e.data[key]; ok && !old.Persistent() {
		e.index.unsubscribe(key, old.ExpiresAt())
	}

	r := &Record{Value: value, TTLSeconds: o.ttlSeconds, WrittenAt: e.now()}
	e.data[key] = r
	if !r.Persistent() {
		e.index.subscribe(key, r.ExpiresAt())
	}
}

// Delete removes the record for key, unsubscribing it from the expiry index
// first. Deleting an absent key is a no-op and returns false.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.data[key]
	if !ok {
		return false
	}
	e.removeLocked(key, r)
	return true
}

// Increment adds by to the numeric value stored at key and returns the
// result. An absent (or expired) key is created as a persistent record with
// value by. A present record keeps its TTL subscription and WrittenAt: only
// the value changes. A present value of 0 is a real number to add to, not an
// absence. Non-numeric values fail with NotIncrementableError.
func (e *Engine) Increment(key string, by int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	r, ok := e.data[key]
	if ok && r.Expired(now) {
		e.removeLocked(key, r)
		ok = false
	}
	if !ok {
		e.data[key] = &Record{Value: by, WrittenAt: now}
		return by, nil
	}

	n, numeric := asInt64(r.Value)
	if !numeric {
		return 0, &NotIncrementableError{Key: key}
	}
	n += by
	r.Value = n
	return n, nil
}

// Decrement subtracts one from the numeric value stored at key.
func (e *Engine) Decrement(key string) (int64, error) {
	return e.Increment(key, -1)
}

// Expire resets the record's TTL and WrittenAt. The old expiry subscription
// (if any) is removed before the new one is added, since the expiration
// instant changes. A TTL of zero makes the record persistent. Fails with
// KeyNotFoundError when the key is absent or already expired.
func (e *Engine) Expire(key string, ttlSeconds int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	r, ok := e.data[key]
	if ok && r.Expired(now) {
		e.removeLocked(key, r)
		ok = false
	}
	if !ok {
		return &KeyNotFoundError{Key: key}
	}

	if !r.Persistent() {
		e.index.unsubscribe(key, r.ExpiresAt())
	}
	r.TTLSeconds = ttlSeconds
	r.WrittenAt = now
	if !r.Persistent() {
		e.index.subscribe(key, r.ExpiresAt())
	}
	return nil
}

// TTL returns the remaining lifetime of key in seconds. Persistent records
// and expired-but-not-yet-reaped records both report zero; callers that need
// to tell them apart call Get first. Fails with KeyNotFoundError when absent.
func (e *Engine) TTL(key string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.data[key]
	if !ok {
		return 0, &KeyNotFoundError{Key: key}
	}
	return r.RemainingTTL(e.now()), nil
}

// Reap deletes every record whose expiration instant has passed, draining
// the due expiry buckets, and returns the number of records deleted. The
// reaper calls this on each tick; lazy expiry on Get remains the correctness
// backstop when ticks are missed.
func (e *Engine) Reap() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	reaped := 0
	for _, key := range e.index.due(now.Unix()) {
		r, ok := e.data[key]
		if !ok || !r.Expired(now) {
			continue
		}
		delete(e.data, key)
		reaped++
	}
	return reaped
}

// Len returns the number of records currently held, including expired
// records not yet reaped or lazily dropped.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.data)
}

// removeLocked drops a record and its expiry subscription. Callers hold mu.
func (e *Engine) removeLocked(key string, r *Record) {
	if !r.Persistent() {
		e.index.unsubscribe(key, r.ExpiresAt())
	}
	delete(e.data, key)
}

// asInt64 coerces a stored value to an integer. JSON decoding hands the
// engine float64 for every number, so integral floats count as integers.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
