package store

import "time"

// Record is one stored value plus its TTL metadata.
//
// TTL, expiry, and persistence are pure functions of (TTLSeconds, WrittenAt,
// now), computed on demand so they can never drift from the clock.
type Record struct {
	Value      any
	TTLSeconds int64
	WrittenAt  time.Time
}

// Persistent reports whether the record never expires (TTL of zero).
func (r *Record) Persistent() bool {
	return r.TTLSeconds == 0
}

// ExpiresAt returns the unix second at which the record expires.
// Meaningless when the record is persistent.
func (r *Record) ExpiresAt() int64 {
	return r.WrittenAt.Unix() + r.TTLSeconds
}

// RemainingTTL returns the seconds of life left at now, clamped at zero.
// Persistent and already-expired records both report zero.
func (r *Record) RemainingTTL(now time.Time) int64 {
	remaining := r.TTLSeconds - (now.Unix() - r.WrittenAt.Unix())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the record's lifetime has run out at now.
// Persistent records never expire.
func (r *Record) Expired(now time.Time) bool {
	return !r.Persistent() && r.RemainingTTL(now) <= 0
}
