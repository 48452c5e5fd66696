// Package sessions tracks the mapping between external chat identities and
// YourGPT provider sessions.
package sessions

import "time"

// Record holds one provider session bound to a (user, channel) pair.
type Record struct {
	SessionUID   string    // Provider session identifier, required for sends
	UserID       string    // External user identity
	ChannelID    string    // External channel identity
	UserName     string    // Display label only
	CreatedAt    time.Time // Set once when the record is inserted
	LastActivity time.Time // Updated on each successful relay, drives sweeping
}

// KeyedRecord pairs a Record with its store key, for introspection listings.
type KeyedRecord struct {
	Key    string
	Record Record
}

// Key derives the store key for a (user, channel) pair. The same pair always
// maps to the same key, so repeat messages in one conversation share a slot.
func Key(userID, channelID string) string {
	return userID + "_" + channelID
}
