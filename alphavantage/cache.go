package alphavantage

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/stocklots/date"
	"github.com/rs/zerolog/log"
)

// diskCache is an http.RoundTripper keeping successful responses on disk
// for the day.
type diskCache struct {
	base http.RoundTripper
	dir  string
	// accept tells whether a successful response body can be cached.
	accept func(body []byte) bool
	today  func() date.Date
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	// one key per day, so that the cache expires every day.
	key := fmt.Sprintf("%s %s %s", c.today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		log.Debug().Str("path", req.URL.Path).Str("symbol", req.URL.Query().Get("symbol")).Msg("cache hit")
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Str("status", resp.Status).Msg("http request")
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if c.accept != nil && !c.accept(body) {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Warn().Err(err).Msg("cache write error (ignored)")
	}
	return resp, nil
}

func (c *diskCache) file(key string) string { return filepath.Join(c.dir, key) }

// get reads a cached response.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(c.file(key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response, its body is preserved.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.file(key), content, 0o644)
}
