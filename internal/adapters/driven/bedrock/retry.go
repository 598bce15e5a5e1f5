package bedrock

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/aws/smithy-go"
)

// Error classes the provider reports when a model call should be retried
// (possibly against the fallback model) rather than failed.
var retryableErrorCodes = map[string]bool{
	"ThrottlingException":         true,
	"ServiceUnavailableException": true,
	"ModelNotReadyException":      true,
}

// isRetryable classifies an invocation error. API errors are retryable
// only for the throttling/unavailable/not-ready classes; anything that is
// not an API error is treated as a connection-level failure and retried.
func isRetryable(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return retryableErrorCodes[apiErr.ErrorCode()]
	}
	return true
}

// backoffDelay computes base * 2^attempt plus uniform jitter in [0, jitterMax).
func backoffDelay(base time.Duration, attempt int, jitterMax time.Duration) time.Duration {
	delay := base << uint(attempt)
	if jitterMax > 0 {
		delay += time.Duration(rand.Int63n(int64(jitterMax)))
	}
	return delay
}

// sleep waits for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
