package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// brotliWriter streams the response body through a brotli encoder created on
// the first Write, so empty responses go out untouched.
type brotliWriter struct {
	http.ResponseWriter
	level       int
	enc         *brotli.Writer
	wroteHeader bool
}

func (w *brotliWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	h := w.Header()
	h.Add("Vary", "Accept-Encoding")
	if code != http.StatusNoContent && code != http.StatusNotModified {
		h.Del("Content-Length")
		h.Set("Content-Encoding", "br")
		w.enc = brotli.NewWriterLevel(w.ResponseWriter, w.level)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *brotliWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.enc == nil {
		return w.ResponseWriter.Write(b)
	}
	return w.enc.Write(b)
}

func (w *brotliWriter) close() error {
	if w.enc == nil {
		return nil
	}
	return w.enc.Close()
}

// Compress brotli-encodes responses for clients that send
// "Accept-Encoding: br". level is clamped to brotli's 0..11 range.
func Compress(level int) func(http.Handler) http.Handler {
	if level < brotli.BestSpeed {
		level = brotli.BestSpeed
	}
	if level > brotli.BestCompression {
		level = brotli.BestCompression
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !acceptsBrotli(r.Header.Get("Accept-Encoding")) || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			bw := &brotliWriter{ResponseWriter: w, level: level}
			defer bw.close()

			next.ServeHTTP(bw, r)
		})
	}
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		enc, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(enc), "br") {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}
