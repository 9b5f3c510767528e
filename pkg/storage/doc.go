// Package storage provides file management for the bugview crawler.
//
// The storage package handles:
//   - Creating the target directory
//   - Deciding which issue keys still need downloading
//   - Saving issue bodies with atomic write operations
//
// The Manager type is the primary interface for storage operations. The
// presence of <dir>/<key>.json is the sole persisted state distinguishing
// "already downloaded" from "pending": there is no database and no index
// file. Writes go to <dir>/<key>.json.tmp first and are renamed onto the
// final path, so a final file is either absent or complete. A stale .tmp
// file left by an interrupted run is harmless; the next run overwrites it.
//
// Usage:
//
//	manager, err := storage.NewManager("./bugs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	missing, err := manager.Missing(allKeys)
//	for _, key := range missing {
//	    // fetch body, then:
//	    err = manager.SaveIssue(key, body)
//	}
package storage
