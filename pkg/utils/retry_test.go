package utils_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	errTemporary := errors.New("temporary")
	errFatal := errors.New("fatal")

	cfg := utils.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Multiplier:   2,
	}

	testCases := []struct {
		name         string
		results      []error
		stopOn       []error
		wantErr      error
		wantAttempts int
	}{
		{
			name:         "success on first attempt",
			results:      []error{nil},
			wantAttempts: 1,
		},
		{
			name:         "success after retries",
			results:      []error{errTemporary, errTemporary, nil},
			wantAttempts: 3,
		},
		{
			name:         "attempts exhausted",
			results:      []error{errTemporary, errTemporary, errTemporary},
			wantErr:      errTemporary,
			wantAttempts: 3,
		},
		{
			name:         "stop error is not retried",
			results:      []error{errFatal},
			stopOn:       []error{errFatal},
			wantErr:      errFatal,
			wantAttempts: 1,
		},
		{
			name:         "wrapped stop error is not retried",
			results:      []error{errors.Join(errors.New("context"), errFatal)},
			stopOn:       []error{errFatal},
			wantErr:      errFatal,
			wantAttempts: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			attempts := 0
			err := utils.Retry(context.Background(), cfg, func() error {
				res := tc.results[attempts]
				attempts++
				return res
			}, tc.stopOn...)

			assert.Equal(t, tc.wantAttempts, attempts)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	cfg := utils.RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		Multiplier:   2,
	}

	t.Run("cancellation error is not retried", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		attempts := 0
		start := time.Now()
		err := utils.Retry(ctx, cfg, func() error {
			attempts++
			return ctx.Err()
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("deadline error is not retried", func(t *testing.T) {
		attempts := 0
		err := utils.Retry(context.Background(), cfg, func() error {
			attempts++
			return fmt.Errorf("query: %w", context.DeadlineExceeded)
		})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 1, attempts)
	})

	t.Run("cancel during backoff stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		errTemporary := errors.New("temporary")
		attempts := 0
		start := time.Now()
		err := utils.Retry(ctx, cfg, func() error {
			attempts++
			return errTemporary
		})

		assert.ErrorIs(t, err, errTemporary)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 1, attempts)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})
}
