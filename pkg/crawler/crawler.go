package crawler

import (
	"fmt"

	"bugcrawl/pkg/bugview"
	"bugcrawl/pkg/config"
	"bugcrawl/pkg/errors"
	"bugcrawl/pkg/logger"
	"bugcrawl/pkg/ratelimit"
	"bugcrawl/pkg/storage"
)

// progressEvery is the download count between progress log lines.
const progressEvery = 100

// Crawler orchestrates the end-to-end crawl: listing walk, missing-set
// computation, and sequential paced downloads.
type Crawler struct {
	client       BugviewClient
	store        *storage.Manager
	listingPacer ratelimit.Limiter
	issuePacer   ratelimit.Limiter
	config       *config.Config
	logger       logger.Logger
}

// Report summarizes one crawl run. Counters live here rather than in shared
// state so the walker and downloader stay pure with respect to the caller.
type Report struct {
	// Total is the number of issue keys discovered across all listing pages
	Total int
	// Missing is the number of keys with no local file before the run
	Missing int
	// Downloaded is the number of issues persisted during this run
	Downloaded int
	// Failed holds the keys that could not be downloaded. Only populated
	// under the skip error policy; under abort the run ends at the first
	// failure instead.
	Failed []string
}

// New creates a new Crawler instance
func New(cfg *config.Config) (*Crawler, error) {
	log := logger.GetLogger()

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	return &Crawler{
		client:       bugview.NewClient(&cfg.Bugview, log),
		store:        store,
		listingPacer: ratelimit.NewInterval(cfg.Crawl.ListingDelay),
		issuePacer:   ratelimit.NewInterval(cfg.Crawl.IssueDelay),
		config:       cfg,
		logger:       log,
	}, nil
}

// Run executes the full crawl sequence and returns a report of what it did.
// On failure the returned report covers whatever completed before the error.
func (c *Crawler) Run() (*Report, error) {
	report := &Report{}

	c.logger.Info("fetching full list of issue keys")
	keys, err := c.ListAllIssueKeys()
	if err != nil {
		return report, err
	}
	report.Total = len(keys)

	c.logger.InfoWithFields("determining which issues we already have", map[string]interface{}{
		"total_issues": len(keys),
	})
	missing, err := c.store.Missing(keys)
	if err != nil {
		return report, err
	}
	report.Missing = len(missing)

	c.logger.InfoWithFields("starting downloads", map[string]interface{}{
		"total_issues":       len(keys),
		"issues_to_download": len(missing),
	})

	for _, key := range missing {
		c.issuePacer.Wait()

		if err := c.downloadIssue(key); err != nil {
			if c.config.Crawl.ErrorPolicy == config.ErrorPolicySkip {
				c.logger.ErrorWithFields("download failed, skipping", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
				report.Failed = append(report.Failed, key)
				continue
			}
			return report, err
		}

		report.Downloaded++
		if report.Downloaded%progressEvery == 0 {
			c.logger.InfoWithFields("download progress", map[string]interface{}{
				"downloaded": report.Downloaded,
				"remaining":  report.Missing - report.Downloaded - len(report.Failed),
			})
		}
	}

	if len(report.Failed) > 0 {
		return report, fmt.Errorf("failed to download %d of %d issues", len(report.Failed), report.Missing)
	}

	c.logger.InfoWithFields("crawl completed", map[string]interface{}{
		"total_issues": report.Total,
		"downloaded":   report.Downloaded,
	})
	return report, nil
}

// ListAllIssueKeys walks the paginated listing from offset zero until the
// server-reported total is covered, accumulating every summary's key in
// page order. Any page fetch or decode failure aborts the walk; there is no
// partial result and no retry.
func (c *Crawler) ListAllIssueKeys() ([]string, error) {
	var keys []string
	offset := 0

	for {
		c.listingPacer.Wait()

		page, err := c.client.FetchListingPage(c.config.Crawl.SortField, offset)
		if err != nil {
			return nil, err
		}

		// An empty page below the reported total would otherwise loop forever.
		if len(page.Issues) == 0 && page.Offset+len(page.Issues) < page.Total {
			return nil, errors.New(errors.KindDecode,
				"listing page at offset %d returned no issues (total %d)", offset, page.Total)
		}

		for _, issue := range page.Issues {
			if err := bugview.ValidateKey(issue.Key); err != nil {
				return nil, err
			}
			keys = append(keys, issue.Key)
		}

		served := page.Offset + len(page.Issues)
		c.logger.InfoWithFields("listed issues", map[string]interface{}{
			"listed": served,
			"total":  page.Total,
		})

		if served >= page.Total {
			break
		}
		offset = served
	}

	return keys, nil
}

// downloadIssue fetches one issue's full JSON body and persists it
// atomically.
func (c *Crawler) downloadIssue(key string) error {
	c.logger.DebugWithFields("downloading issue", map[string]interface{}{
		"key": key,
	})

	body, err := c.client.FetchIssue(key, c.config.Crawl.MaxIssueSize)
	if err != nil {
		return err
	}

	return c.store.SaveIssue(key, body)
}
