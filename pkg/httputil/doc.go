// Package httputil provides HTTP helpers for fetching remote datasets.
//
// # Overview
//
//   - [Fetch]: GET a URL and return the body, classifying failures
//   - [Backoff]: Retry with capped exponential backoff
//   - [Retry]: Shorthand for a [Backoff] without a cap
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only. [Fetch] marks
// these with [RetryableError]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Everything else (404, malformed URLs) fails immediately:
//
//	var body []byte
//	err := httputil.DefaultBackoff.Retry(ctx, func(attempt int) (err error) {
//	    body, err = httputil.Fetch(ctx, http.DefaultClient, url)
//	    return err
//	})
//
// A 429 or 503 response with a Retry-After header stretches the next wait
// to what the server asked for, still bounded by [Backoff.Max].
package httputil
