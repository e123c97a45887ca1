package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how a Retrying store retries transient errors.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsed:      30 * time.Second,
	}
}

// Retrying wraps a Store and retries operations that fail with a transient
// error. Any other error is returned at once.
type Retrying struct {
	next   Store
	policy RetryPolicy
}

// NewRetrying wraps next with the given policy.
func NewRetrying(next Store, policy RetryPolicy) *Retrying {
	return &Retrying{next: next, policy: policy}
}

// IsTransient reports whether err is worth retrying: network failures,
// dropped connections and errors marked with ErrTransient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrTransient) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func (r *Retrying) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.policy.InitialInterval
	exp.MaxInterval = r.policy.MaxInterval
	exp.MaxElapsedTime = r.policy.MaxElapsed

	var b backoff.BackOff = exp
	if r.policy.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(r.policy.MaxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}

func (r *Retrying) do(ctx context.Context, op string, table string, fn func() error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, r.backOff(ctx), func(err error, wait time.Duration) {
		slog.Warn("transient store error, retrying",
			"op", op,
			"table", table,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	})
}

// Insert implements Store.
func (r *Retrying) Insert(ctx context.Context, table string, rec Record) error {
	return r.do(ctx, "insert", table, func() error {
		return r.next.Insert(ctx, table, rec)
	})
}

// Update implements Store.
func (r *Retrying) Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error) {
	var n int64
	err := r.do(ctx, "update", table, func() error {
		var err error
		n, err = r.next.Update(ctx, table, filter, patch)
		return err
	})
	return n, err
}

// Select implements Store.
func (r *Retrying) Select(ctx context.Context, table string, columns []string, filter Filter) ([]Record, error) {
	var out []Record
	err := r.do(ctx, "select", table, func() error {
		var err error
		out, err = r.next.Select(ctx, table, columns, filter)
		return err
	})
	return out, err
}

// Close closes the wrapped store.
func (r *Retrying) Close() error {
	return r.next.Close()
}
