// Package ratelimit provides request pacing for the bugview crawler.
//
// The crawler is deliberately polite toward the remote service: every
// listing-page fetch and every issue download is spaced out by a minimum
// interval. The IntervalLimiter implements that rule as a pacing scheduler
// rather than an unconditional sleep: the time a request itself took is
// subtracted from the interval, so only the remainder is slept.
//
// Usage:
//
//	pacer := ratelimit.NewInterval(500 * time.Millisecond)
//	for {
//	    pacer.Wait() // no-op on the first call
//	    fetchNextPage()
//	}
//
// Two independent limiters are used in practice, one for listing calls and
// one for issue downloads, since the two endpoints have different pacing
// requirements.
package ratelimit
