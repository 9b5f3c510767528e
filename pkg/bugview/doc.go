// Package bugview provides a client for the bugview issue-tracking web API.
//
// The service exposes two read-only endpoints:
//
//   - GET <base>/index.json?offset=<n>&sort=<field> returns one page of
//     issue summaries together with the server's offset/total accounting
//   - GET <base>/fulljson/<key> returns the full JSON body of one issue
//
// This package includes:
//   - A configurable HTTP client with a fixed user agent, connect and
//     request timeouts, and status classification
//   - Type-safe models for listing pages
//   - Helper functions for constructing endpoint URLs
//   - Validation of issue keys before they are used as URL path segments
//     or file basenames
//
// Example usage:
//
//	client := bugview.NewClient(&cfg.Bugview, log)
//
//	page, err := client.FetchListingPage(bugview.SortCreated, 0)
//	if err != nil {
//	    // errors carry a kind from pkg/errors: network, protocol, decode
//	}
//
//	body, err := client.FetchIssue("MANATEE-400", 10*1024*1024)
//	// body is the verbatim JSON to persist
package bugview
