// Package crawler provides the core functionality for mirroring bugview
// issues to a local directory.
//
// The crawler package orchestrates the entire crawl, coordinating between
// the bugview API client, storage management, and request pacing.
//
// Architecture:
//
// The Crawler struct is the main component that:
//   - Walks the paginated listing endpoint to discover every issue key
//   - Filters that list against issues already present on disk
//   - Downloads each missing issue sequentially, pacing requests
//   - Persists each body atomically so re-runs are safe at any point
//
// The crawl is strictly single-threaded: one request at a time, in program
// order, with a minimum interval between listing calls and a separate,
// longer interval between issue downloads. This is a politeness constraint
// toward the remote service, not an incidental limitation.
//
// Error policy:
//
// By default any failure aborts the whole run (the files already published
// remain valid and are skipped next time). With the "skip" policy a failed
// issue download is logged and recorded in the report while the crawl
// continues; listing-phase failures always abort.
package crawler
