package domain

import "time"

// Entry is a dated activity record owned by a single user. Numeric fields
// default to zero when the caller omits them.
type Entry struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	Date          string    `json:"date"`
	Role          string    `json:"role"`
	BookedCalls   int       `json:"bookedCalls"`
	NoShows       int       `json:"noShows"`
	ClosedWon     int       `json:"closedWon"`
	ClosedLost    int       `json:"closedLost"`
	PIF           int       `json:"pif"`
	Splits        int       `json:"splits"`
	CashCollected float64   `json:"cashCollected"`
	RenewalsCash  float64   `json:"renewalsCash"`
	Reschedules   int       `json:"reschedules"`
	CreatedAt     time.Time `json:"createdAt"`
}
