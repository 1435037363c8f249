package utils

import (
	"context"
	"math/rand"
	"time"
)

type Backoff struct {
	base       time.Duration
	maxRetries int
	jitter     time.Duration
}

func NewBackoff(base time.Duration, maxRetries int) Backoff {
	return Backoff{base: base, maxRetries: maxRetries, jitter: base + base/2}
}

// Delay is the wait before attempt i+1: exponential plus jitter.
func (b Backoff) Delay(i int) time.Duration {
	t := time.Duration(1<<i) * b.base
	if b.jitter > 0 {
		t += time.Duration(rand.Int63n(int64(b.jitter)))
	}
	return t
}

// Do runs fn up to maxRetries+1 times, stopping early on success or when ctx ends.
// fn may wrap an error in Permanent to stop retrying.
func (b Backoff) Do(ctx context.Context, fn func(i int) error) error {
	var err error
	for i := 0; i <= b.maxRetries; i++ {
		err = fn(i)
		if err == nil {
			return nil
		}
		if p, ok := err.(permanent); ok {
			return p.err
		}
		if i == b.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Delay(i)):
		}
	}
	return err
}

type permanent struct{ err error }

func (p permanent) Error() string { return p.err.Error() }

func Permanent(err error) error { return permanent{err: err} }
