// Package reliability classifies provider failures for user-facing
// diagnostics. The pipeline never retries in-core; the retryability hint is
// surfaced so the user knows whether trying again can help.
package reliability

// IsRetryableHTTPStatus classifies retryable HTTP status codes.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
