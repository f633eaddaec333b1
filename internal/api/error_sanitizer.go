package api

import (
	"net/http"
	"strings"

	"github.com/mhaveles/airbnboptimizer/internal/pkg/httputil"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
)

// respondSafeError logs the full internal error and sends a sanitized
// JSON error to the client. Vendor tokens, record formulas, and AWS
// details must never reach the browser.
func respondSafeError(w http.ResponseWriter, code int, internalErr error, publicMsg string) {
	if internalErr != nil {
		logger.Error(publicMsg, "status", code, "error", internalErr.Error())
	}
	httputil.Error(w, code, publicMsg, safeDetail(internalErr))
}

// safeDetail maps internal error patterns to messages safe to expose.
func safeDetail(internalErr error) string {
	if internalErr == nil {
		return ""
	}
	errStr := strings.ToLower(internalErr.Error())

	switch {
	case strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp"):
		return "Service temporarily unavailable"

	case strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context canceled"):
		return "Request timed out"

	case strings.Contains(errStr, "missing required configuration"):
		return "Service is not configured"

	default:
		return ""
	}
}
