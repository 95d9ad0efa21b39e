package session

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"
)

// Preflight checks that host:port accepts a TCP connection within timeout.
// tick is called once per second with the whole seconds left. The result is
// RCSuccess, RCTimeout, RCCancelled (ctx done), RCLookupFailure or RCFailed.
func Preflight(ctx context.Context, host string, port int, timeout time.Duration, tick func(remaining int)) int {
	if timeout < time.Second {
		timeout = time.Second
	}

	// Resolve first so that unknown names fail immediately.
	if _, err := net.DefaultResolver.LookupHost(ctx, host); err != nil {
		if ctx.Err() != nil {
			return RCCancelled
		}
		return RCLookupFailure
	}

	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var d net.Dialer
		conn, err := d.DialContext(dctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			_ = conn.Close()
		}
		done <- err
	}()

	remaining := int(timeout / time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	if tick != nil {
		tick(remaining)
	}

	for {
		select {
		case err := <-done:
			return dialRC(ctx, dctx, err)
		case <-ticker.C:
			remaining--
			if remaining > 0 && tick != nil {
				tick(remaining)
			}
		}
	}
}

func dialRC(parent, dctx context.Context, err error) int {
	if err == nil {
		return RCSuccess
	}
	if parent.Err() != nil {
		return RCCancelled
	}
	if errors.Is(dctx.Err(), context.DeadlineExceeded) {
		return RCTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return RCTimeout
	}
	return RCFailed
}
