package app

import (
	"context"
	"time"

	"github.com/bft-labs/assetship/internal/ports"
)

// RetryUploader retries failed uploads with jittered exponential backoff.
type RetryUploader struct {
	next     ports.Uploader
	attempts int
	initial  time.Duration
	max      time.Duration
	logger   ports.Logger
}

// NewRetryUploader wraps next. attempts is the total number of tries and is
// at least one.
func NewRetryUploader(next ports.Uploader, attempts int, logger ports.Logger) *RetryUploader {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryUploader{
		next:     next,
		attempts: attempts,
		initial:  DefaultBackoffInitial,
		max:      DefaultBackoffMax,
		logger:   logger,
	}
}

// Upload implements ports.Uploader.
func (u *RetryUploader) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	b := newBackoff(u.initial, u.max)
	var err error
	for attempt := 1; ; attempt++ {
		var url string
		url, err = u.next.Upload(ctx, key, body, contentType)
		if err == nil {
			return url, nil
		}
		if attempt >= u.attempts {
			return "", err
		}
		u.logger.Warn("upload failed, retrying",
			ports.String("key", key),
			ports.Int("attempt", attempt),
			ports.Duration("backoff", b.Current()),
			ports.Err(err),
		)
		if werr := b.Wait(ctx); werr != nil {
			return "", err
		}
	}
}

// URL implements ports.Uploader.
func (u *RetryUploader) URL(key string) string {
	return u.next.URL(key)
}
