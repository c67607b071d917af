package models

import "time"

// TrendItem is one fetched trend-briefing entry. The trend-briefing
// reminder fires once per day after the unread set becomes non-empty.
type TrendItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source,omitempty"`
	URL       string    `json:"url,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTrendItemRequest is the request body for adding a trend item
type CreateTrendItemRequest struct {
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
	URL    string `json:"url,omitempty"`
}
