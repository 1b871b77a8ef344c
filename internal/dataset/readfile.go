package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ReadFile reads a workbook from disk, retrying transient failures (files on
// shared drives that are still being written) until maxElapsed. Missing files
// and permission errors are not retried.
func ReadFile(ctx context.Context, path string, maxElapsed time.Duration) ([]byte, error) {
	var data []byte
	op := func() error {
		b, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(b) == 0 {
			return fmt.Errorf("%s is empty", path)
		}
		data = b
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = maxElapsed

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
