package model

// FeedError records a feed that could not be fetched or parsed in a refresh cycle.
type FeedError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// RefreshReport aggregates the outcome of one refresh cycle.
type RefreshReport struct {
	Created int         `json:"created"`
	Checked int         `json:"checked"`
	Errors  []FeedError `json:"errors"`
}
