package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// CategorizeTransportError turns a transport-level failure into a short
// user-facing cause. Timeouts are called out explicitly so the report can
// distinguish "no response" from an actively failing endpoint.
func CategorizeTransportError(err error, timeout time.Duration) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("timeout (no response within %s)", timeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("timeout (no response within %s)", timeout)
	}

	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "connection refused"):
		return "connection refused (server not listening)"
	case strings.Contains(errStr, "no such host"), strings.Contains(errStr, "NXDOMAIN"):
		return "DNS resolution failed"
	case strings.Contains(errStr, "certificate"), strings.Contains(errStr, "tls:"):
		return "TLS handshake failed"
	case strings.Contains(errStr, "network is unreachable"):
		return "network unreachable"
	case strings.Contains(errStr, "EOF"):
		return "connection closed unexpectedly"
	default:
		return fmt.Sprintf("network error: %v", err)
	}
}
