package middleware

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strconv"
	"strings"
)

// DefaultGzipMinSize is the response size, in bytes, below which
// compression is skipped.
const DefaultGzipMinSize = 1000

// Gzip returns middleware that compresses responses of at least minSize
// bytes for clients that accept gzip. Websocket upgrades pass through
// untouched because the wrapped writer cannot be hijacked.
func Gzip(minSize int) func(http.Handler) http.Handler {
	if minSize <= 0 {
		minSize = DefaultGzipMinSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isUpgrade(r) || !acceptsGzip(r) {
				next.ServeHTTP(w, r)
				return
			}

			buf := &bufferingWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
			}
			next.ServeHTTP(buf, r)
			buf.emit(minSize)
		})
	}
}

func isUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

// bufferingWriter defers the write decision until the handler finishes so
// the final body size is known.
type bufferingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *bufferingWriter) WriteHeader(status int) {
	b.status = status
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

// emit flushes the buffered response, gzipping when it clears minSize and
// the handler did not already encode it.
func (b *bufferingWriter) emit(minSize int) {
	h := b.ResponseWriter.Header()

	if b.body.Len() < minSize || h.Get("Content-Encoding") != "" {
		h.Set("Content-Length", strconv.Itoa(b.body.Len()))
		b.ResponseWriter.WriteHeader(b.status)
		_, _ = b.ResponseWriter.Write(b.body.Bytes())
		return
	}

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(b.body.Bytes()); err != nil {
		gz.Close()
		b.ResponseWriter.WriteHeader(b.status)
		_, _ = b.ResponseWriter.Write(b.body.Bytes())
		return
	}
	if err := gz.Close(); err != nil {
		b.ResponseWriter.WriteHeader(b.status)
		_, _ = b.ResponseWriter.Write(b.body.Bytes())
		return
	}

	h.Set("Content-Encoding", "gzip")
	h.Set("Content-Length", strconv.Itoa(compressed.Len()))
	h.Add("Vary", "Accept-Encoding")
	b.ResponseWriter.WriteHeader(b.status)
	_, _ = b.ResponseWriter.Write(compressed.Bytes())
}
