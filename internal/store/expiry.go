package store

// expiryIndex maps expiration instants (unix seconds) to the set of keys
// expiring at that instant. The engine keeps it consistent with the record
// map under the engine mutex; the index itself does no locking.
//
// horizon is the last instant already drained. due advances it, so buckets
// skipped while the process was idle are still swept on the next call.
type expiryIndex struct {
	buckets map[int64]map[string]struct{}
	horizon int64
}

func newExpiryIndex(now int64) *expiryIndex {
	return &expiryIndex{
		buckets: make(map[int64]map[string]struct{}),
		horizon: now,
	}
}

// subscribe registers key as expiring at instant at.
func (x *expiryIndex) subscribe(key string, at int64) {
	bucket, ok := x.buckets[at]
	if !ok {
		bucket = make(map[string]struct{})
		x.buckets[at] = bucket
	}
	bucket[key] = struct{}{}
}

// unsubscribe removes key from the bucket at instant at. Removing a key
// that is not subscribed is a no-op: deletes and overwrites may race
// harmlessly with the reaper.
func (x *expiryIndex) unsubscribe(key string, at int64) {
	bucket, ok := x.buckets[at]
	if !ok {
		return
	}
	delete(bucket, key)
	if len(bucket) == 0 {
		delete(x.buckets, at)
	}
}

// due drains every bucket at or before now and returns the keys it held,
// advancing the horizon. Cost is bounded by min(elapsed seconds, distinct
// subscribed instants), never by the keyspace.
func (x *expiryIndex) due(now int64) []string {
	if now <= x.horizon {
		return nil
	}

	var keys []string
	if now-x.horizon > int64(len(x.buckets)) {
		// Cheaper to scan the buckets than to probe every elapsed second.
		for at, bucket := range x.buckets {
			if at > now {
				continue
			}
			for key := range bucket {
				keys = append(keys, key)
			}
			delete(x.buckets, at)
		}
	} else {
		for at := x.horizon + 1; at <= now; at++ {
			bucket, ok := x.buckets[at]
			if !ok {
				continue
			}
			for key := range bucket {
				keys = append(keys, key)
			}
			delete(x.buckets, at)
		}
	}

	x.horizon = now
	return keys
}

// contains reports whether key is subscribed at instant at.
func (x *expiryIndex) contains(key string, at int64) bool {
	bucket, ok := x.buckets[at]
	if !ok {
		return false
	}
	_, ok = bucket[key]
	return ok
}

// size returns the total number of subscriptions across all buckets.
func (x *expiryIndex) size() int {
	total := 0
	for _, bucket := range x.buckets {
		total += len(bucket)
	}
	return total
}
