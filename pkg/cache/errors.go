package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// ErrUnavailable is returned when a Redis server cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// pingAttempts bounds the connection checks of NewRedisCache.
const pingAttempts = 3

// pingBackoff is the first wait between connection checks; it doubles per
// attempt.
var pingBackoff = 200 * time.Millisecond

// transient reports whether a failed PING may succeed when repeated: the
// server was unreachable, dropped the connection, or is still loading its
// dataset. Authentication and protocol errors are final.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) {
		return true
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "LOADING") || strings.HasPrefix(msg, "BUSY")
}

// ping runs check until it succeeds, fails for good, or pingAttempts are
// used up. Unreachable servers are reported as ErrUnavailable.
func ping(ctx context.Context, addr string, check func(context.Context) error) error {
	delay := pingBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = check(ctx); err == nil {
			return nil
		}
		if !transient(err) || attempt == pingAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	if transient(err) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, addr, err)
	}
	return fmt.Errorf("redis %s: %w", addr, err)
}
