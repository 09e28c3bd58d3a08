package streamutil

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"
)

// StreamReaderConfig configures the optimized stream reader.
type StreamReaderConfig struct {
	// IdleTimeout for stalled connection detection (default: 5 minutes)
	IdleTimeout time.Duration
	// BufferSize for the scanner (default: 64KB)
	BufferSize int
	// MaxLineSize limit (default: 2MB)
	MaxLineSize int
	// Name for logging purposes
	Name string
}

// DefaultStreamReaderConfig returns sensible defaults.
func DefaultStreamReaderConfig() StreamReaderConfig {
	return StreamReaderConfig{
		IdleTimeout: 5 * time.Minute,
		BufferSize:  64 * 1024,
		MaxLineSize: 2 * 1024 * 1024,
		Name:        "stream",
	}
}

// OptimizedStreamReader wraps an io.ReadCloser with context awareness and
// idle-timeout detection: a timer is reset on every successful Read and
// closes the body if it ever fires, unblocking a stalled upstream SSE
// connection without a dedicated watcher goroutine per stream.
type OptimizedStreamReader struct {
	body        io.ReadCloser
	ctx         context.Context
	idleTimeout time.Duration
	timer       *time.Timer
	closeOnce   sync.Once
}

// NewOptimizedStreamReader creates a stream reader with idle detection.
func NewOptimizedStreamReader(ctx context.Context, body io.ReadCloser, cfg StreamReaderConfig) *OptimizedStreamReader {
	r := &OptimizedStreamReader{body: body, ctx: ctx, idleTimeout: cfg.IdleTimeout}
	if cfg.IdleTimeout > 0 {
		r.timer = time.AfterFunc(cfg.IdleTimeout, func() { body.Close() })
	}
	return r
}

// Read implements io.Reader with activity tracking.
func (r *OptimizedStreamReader) Read(p []byte) (n int, err error) {
	select {
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	default:
	}

	n, err = r.body.Read(p)
	if n > 0 && r.timer != nil {
		r.timer.Reset(r.idleTimeout)
	}
	return n, err
}

// Close implements io.Closer.
func (r *OptimizedStreamReader) Close() error {
	r.closeOnce.Do(func() {
		if r.timer != nil {
			r.timer.Stop()
		}
		r.body.Close()
	})
	return nil
}

// LineScanner provides line-by-line reading with pooled buffers.
type LineScanner struct {
	reader  *OptimizedStreamReader
	scanner *bufio.Scanner
	buf     *[]byte
}

// NewLineScanner creates a scanner for line-by-line reading.
func NewLineScanner(ctx context.Context, body io.ReadCloser, cfg StreamReaderConfig) *LineScanner {
	reader := NewOptimizedStreamReader(ctx, body, cfg)

	// Get pooled buffer
	buf := GetBuffer(cfg.BufferSize)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(*buf, cfg.MaxLineSize)

	return &LineScanner{
		reader:  reader,
		scanner: scanner,
		buf:     buf,
	}
}

// Scan advances to the next line. Returns false when done or on error.
func (s *LineScanner) Scan() bool {
	return s.scanner.Scan()
}

// Bytes returns the current line bytes.
func (s *LineScanner) Bytes() []byte {
	return s.scanner.Bytes()
}

// Text returns the current line as string.
func (s *LineScanner) Text() string {
	return s.scanner.Text()
}

// Err returns any error that occurred during scanning.
func (s *LineScanner) Err() error {
	return s.scanner.Err()
}

// Close closes the scanner and returns the buffer to the pool.
func (s *LineScanner) Close() error {
	PutBuffer(s.buf)
	return s.reader.Close()
}
