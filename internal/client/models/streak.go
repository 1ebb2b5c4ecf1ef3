package models

// Streak is the server-computed writing streak. The client never derives it
// locally; the calculate_streak RPC is the single source of truth.
type Streak struct {
	CurrentStreak int
	LongestStreak int
	LastEntryDate string
}
