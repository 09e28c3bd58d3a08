package gemini

import (
	"compress/gzip"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/http2"
)

// newTransport builds an HTTP/2-capable transport and disables Go's
// automatic gzip handling so decodingRoundTripper can decode both gzip
// and brotli uniformly — Code Assist's edge serves both depending on
// region.
func newTransport() http.RoundTripper {
	t := &http.Transport{DisableCompression: true}
	_ = http2.ConfigureTransport(t)
	return &decodingRoundTripper{next: t}
}

type decodingRoundTripper struct {
	next http.RoundTripper
}

func (d *decodingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := d.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, gzErr := gzip.NewReader(resp.Body)
		if gzErr != nil {
			resp.Body.Close()
			return nil, gzErr
		}
		resp.Body = wrapReadCloser(gz, resp.Body)
	case "br":
		resp.Body = wrapReadCloser(io.NopCloser(brotli.NewReader(resp.Body)), resp.Body)
	}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	return resp, nil
}

// wrapReadCloser returns a ReadCloser that reads from decoded but closes
// the original compressed body.
func wrapReadCloser(decoded io.ReadCloser, original io.Closer) io.ReadCloser {
	return &decodedBody{decoded: decoded, original: original}
}

type decodedBody struct {
	decoded  io.ReadCloser
	original io.Closer
}

func (b *decodedBody) Read(p []byte) (int, error) { return b.decoded.Read(p) }

func (b *decodedBody) Close() error {
	b.decoded.Close()
	return b.original.Close()
}
