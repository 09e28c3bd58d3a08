package gemini

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// codeAssistEndpoints are TLS-handshaked ahead of the first real request
// so it doesn't pay connection-setup latency on the hot path.
var codeAssistEndpoints = []string{
	"https://cloudcode-pa.googleapis.com",
	"https://oauth2.googleapis.com",
}

// PrewarmConnections issues a HEAD request to every Code Assist and OAuth
// endpoint concurrently, establishing (and letting transport keep-alive
// pool) their TLS connections. Best-effort: a failed prewarm is silently
// dropped, since the real request will simply pay the connection cost
// instead of failing outright.
func PrewarmConnections(ctx context.Context, transport http.RoundTripper) {
	if transport == nil {
		transport = http.DefaultTransport
	}
	const timeout = 5 * time.Second

	var wg sync.WaitGroup
	for _, endpoint := range codeAssistEndpoints {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			prewarmHTTP(ctx, transport, url, timeout)
		}(endpoint)
	}
	wg.Wait()
}

func prewarmHTTP(ctx context.Context, transport http.RoundTripper, baseURL string, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
	if err != nil {
		return
	}

	client := &http.Client{Transport: transport, Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
