// Package search turns content graph search responses into a single item
// shape regardless of which schema the gateway answered with.
package search

import "time"

const (
	// UntitledName is used when no name field is present.
	UntitledName = "Untitled"
	// UnknownValue is used when content type or language is absent.
	UnknownValue = "Unknown"
)

// Item is the normalized search result.
type Item struct {
	GUID        string     `json:"guid"`
	Name        string     `json:"name"`
	ContentType string     `json:"contentType"`
	Language    string     `json:"language"`
	URL         *string    `json:"url"`
	Score       *float64   `json:"score"`
	Modified    *time.Time `json:"modified"`
}
