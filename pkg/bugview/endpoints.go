package bugview

import (
	"fmt"
	"strings"

	"github.com/google/go-querystring/query"

	"bugcrawl/pkg/errors"
)

const (
	// DefaultBaseURL is the base URL for the public bugview service
	DefaultBaseURL = "https://smartos.org/bugview"

	// ListingEndpoint is the paginated issue listing endpoint
	ListingEndpoint = "/index.json"

	// IssueEndpoint is the endpoint prefix for a single issue's full JSON
	IssueEndpoint = "/fulljson/"
)

// Sort fields accepted by the listing endpoint.
const (
	SortCreated = "created"
	SortUpdated = "updated"
	SortKey     = "key"
)

// ListingQuery is encoded onto the listing endpoint URL
type ListingQuery struct {
	Sort   string `url:"sort"`
	Offset int    `url:"offset"`
}

// ListingURL constructs the URL for one listing page.
func ListingURL(baseURL, sort string, offset int) (string, error) {
	v, err := query.Values(ListingQuery{Sort: sort, Offset: offset})
	if err != nil {
		return "", fmt.Errorf("failed to encode listing query: %w", err)
	}
	return fmt.Sprintf("%s%s?%s", strings.TrimSuffix(baseURL, "/"), ListingEndpoint, v.Encode()), nil
}

// IssueURL constructs the URL for one issue's full JSON representation.
// The key is validated first since it becomes a URL path segment.
func IssueURL(baseURL, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%s", strings.TrimSuffix(baseURL, "/"), IssueEndpoint, key), nil
}

// IsValidSort reports whether the listing endpoint accepts the sort field.
func IsValidSort(sort string) bool {
	switch sort {
	case SortCreated, SortUpdated, SortKey:
		return true
	}
	return false
}

// ValidateKey checks that an issue key from the remote listing is safe to
// use as both a URL path segment and a file basename. Keys containing path
// separators or anything outside [A-Za-z0-9._-] are rejected, as are keys
// that are empty or entirely dots.
func ValidateKey(key string) error {
	if key == "" {
		return errors.New(errors.KindDecode, "issue key is empty")
	}
	if key == "." || key == ".." {
		return errors.New(errors.KindDecode, "invalid issue key %q", key)
	}
	for _, r := range key {
		if !((r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '.' || r == '_' || r == '-') {
			return errors.New(errors.KindDecode, "issue key %q contains unsafe character %q", key, r)
		}
	}
	return nil
}
