package gemini

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/samkirk/gca-bridge/internal/apierr"
)

var quotaResetPattern = regexp.MustCompile(`(?i)quota.*?reset.*?(\d+)\s*(seconds?|minutes?|hours?)`)

// classifyError turns a non-2xx/400 upstream response into a typed error
// per spec §4.4's error-recovery rules. 401 is handled by the caller
// (token invalidation + restart), not here.
func classifyError(resp *http.Response, body []byte, model string) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return rateLimitError(resp, body, model)
	case resp.StatusCode == http.StatusBadRequest:
		var e wireErrorBody
		if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
			return apierr.Upstream{StatusCode_: resp.StatusCode, Body: e.Error.Message}
		}
		return apierr.Upstream{StatusCode_: resp.StatusCode, Body: string(body)}
	default:
		return apierr.Upstream{StatusCode_: resp.StatusCode, Body: string(body)}
	}
}

func rateLimitError(resp *http.Response, body []byte, model string) apierr.RateLimit {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil {
			return apierr.RateLimit{
				Model:        model,
				StatusCode_:  http.StatusTooManyRequests,
				ResetAfterMS: int64(secs) * 1000,
				Message:      string(body),
			}
		}
	}

	if m := quotaResetPattern.FindStringSubmatch(string(body)); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return apierr.RateLimit{
				Model:        model,
				StatusCode_:  http.StatusTooManyRequests,
				ResetAfterMS: int64(n) * unitMillis(m[2]),
				Message:      string(body),
			}
		}
	}

	return apierr.RateLimit{
		Model:       model,
		StatusCode_: http.StatusTooManyRequests,
		Message:     string(body),
	}
}

func unitMillis(unit string) int64 {
	switch unit[0] {
	case 'h':
		return int64(time.Hour / time.Millisecond)
	case 'm':
		return int64(time.Minute / time.Millisecond)
	default:
		return int64(time.Second / time.Millisecond)
	}
}

func readAll(r io.Reader) []byte {
	b, _ := io.ReadAll(r)
	return b
}
