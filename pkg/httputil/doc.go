// Package httputil provides HTTP helpers for the remote FileSet loaders.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff, but only for errors
// wrapped in [RetryableError]. Everything else returns immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp)
//	})
//
// # Response classification
//
// [CheckResponse] turns non-2xx responses into a [StatusError]. Server errors
// (5xx) and rate limiting (429) come back wrapped as retryable; other client
// errors do not.
//
// Defaults: 3 attempts, 1 second initial delay, doubling on each retry.
package httputil
