package types

import "time"

// Tour is a single catalog record. The orchestrator only ever cares about
// ID and Destination; the remaining fields drive the catalog filter.
type Tour struct {
	ID             int       `json:"id"`
	Place          string    `json:"place"`
	Destination    string    `json:"destination"`
	Budget         int       `json:"budget"`
	DurationDays   int       `json:"duration_days"`
	DurationNights int       `json:"duration_nights"`
	CreatedAt      time.Time `json:"created_at"`
}

// TourSearchParams is the normalized filter extracted from a
// faq-tour-detail intent result.
type TourSearchParams struct {
	// Places holds lowercased, whitespace-stripped place tokens in the
	// order they were extracted.
	Places            []string
	MaxBudget         int
	MaxDurationDays   int
	MaxDurationNights int
}
