package crawler

import "bugcrawl/pkg/bugview"

// BugviewClient defines the bugview API operations the crawler needs.
// Satisfied by *bugview.Client; tests substitute fakes.
type BugviewClient interface {
	FetchListingPage(sort string, offset int) (*bugview.ListingPage, error)
	FetchIssue(key string, maxSize int64) ([]byte, error)
}
