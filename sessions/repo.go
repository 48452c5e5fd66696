package sessions

import "time"

// Repo stores session records keyed by Key(userID, channelID). Every
// operation is atomic with respect to the others; there are no transactions
// spanning multiple calls, and callers must tolerate interleaving.
type Repo interface {
	// Get returns the record for key, if present.
	Get(key string) (Record, bool)

	// Put inserts or overwrites the record for key.
	Put(key string, rec Record)

	// Remove deletes the record for key. Removing an absent key is a no-op.
	Remove(key string)

	// Clear removes every record and returns how many were held.
	Clear() int

	// Sweep removes records whose LastActivity is older than maxIdle and
	// returns how many were removed.
	Sweep(maxIdle time.Duration) int

	// Size returns the number of records currently held.
	Size() int

	// All returns a point-in-time snapshot of every record.
	All() []KeyedRecord
}
