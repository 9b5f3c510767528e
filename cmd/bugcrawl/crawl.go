package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bugcrawl/pkg/config"
	"bugcrawl/pkg/crawler"
	"bugcrawl/pkg/logger"
)

var (
	// Crawl command flags
	outputDir    string
	baseURL      string
	sortField    string
	listingDelay time.Duration
	issueDelay   time.Duration
	maxIssueSize int64
	onError      string
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Download all bugview issues not yet present locally",
	Long: `Walk the bugview listing API to discover every issue key, then
download each issue whose <key>.json file is not already in the output
directory.

Each issue is stored verbatim as <output>/<key>.json. Downloads are
sequential with a fixed minimum interval between requests; listing pages
use a separate, shorter interval.

By default the first failure of any kind aborts the run. Files published
before the failure remain valid and are skipped on the next run. Use
--on-error=skip to log failed issues and keep going instead.`,
	Example: `  # Crawl with default settings into ./bugs
  bugcrawl crawl

  # Crawl into a specific directory from a different bugview host
  bugcrawl crawl --output /data/bugs --base-url https://smartos.org/bugview

  # Keep going past individual bad issues
  bugcrawl crawl --on-error=skip`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCrawl(cmd)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for issue files (default ./bugs)")
	crawlCmd.Flags().StringVar(&baseURL, "base-url", "", "base URL of the bugview service")
	crawlCmd.Flags().StringVar(&sortField, "sort", "", "listing sort field (created, updated, key)")
	crawlCmd.Flags().DurationVar(&listingDelay, "listing-delay", 0, "minimum interval between listing page requests (default 500ms)")
	crawlCmd.Flags().DurationVar(&issueDelay, "issue-delay", 0, "minimum interval between issue downloads (default 1.5s)")
	crawlCmd.Flags().Int64Var(&maxIssueSize, "max-issue-size", 0, "maximum issue body size in bytes (default 10MiB)")
	crawlCmd.Flags().StringVar(&onError, "on-error", "", "download failure policy: abort or skip (default abort)")
}

func runCrawl(cmd *cobra.Command) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if baseURL != "" {
		flags["base-url"] = baseURL
	}
	if sortField != "" {
		flags["sort"] = sortField
	}
	if cmd.Flags().Changed("listing-delay") {
		flags["listing-delay"] = listingDelay
	}
	if cmd.Flags().Changed("issue-delay") {
		flags["issue-delay"] = issueDelay
	}
	if maxIssueSize > 0 {
		flags["max-issue-size"] = maxIssueSize
	}
	if onError != "" {
		flags["on-error"] = onError
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bugcrawl: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "bugcrawl: %v\n", err)
		os.Exit(1)
	}
	logger.WithField("version", version).Info("bugcrawl starting")

	c, err := crawler.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bugcrawl: %v\n", err)
		os.Exit(1)
	}

	report, err := c.Run()
	if err != nil {
		logger.WithError(err).Error("crawl failed")
		fmt.Fprintf(os.Stderr, "bugcrawl: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("total issues: %d, downloaded: %d, already present: %d\n",
		report.Total, report.Downloaded, report.Total-report.Missing)
}
