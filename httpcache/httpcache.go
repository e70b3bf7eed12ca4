// Package httpcache caches HTTP responses on disk for a calendar period, and gets JSON documents.
package httpcache

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
)

// diskCache stores successful responses on disk. Keys include the current period,
// so entries expire when the period changes.
type diskCache struct {
	base   http.RoundTripper
	dir    string
	prefix string
	period date.Period
	today  func() date.Date
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	start := c.today().StartOf(c.period)
	key := fmt.Sprintf("%s %s %s", start, req.Method, req.URL.String())
	key = fmt.Sprintf("%s-%s-%x", c.prefix, c.period, sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("http-get host=%q path=%q status=%q", req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) error {
	// DumpResponse reads the body and replaces it with an in memory copy.
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// New returns a client caching responses in dir for the current period. Cache
// files are named after prefix. An empty dir uses the temporary directory.
func New(dir, prefix string, period date.Period) *http.Client {
	if dir == "" {
		dir = os.TempDir()
	}
	return &http.Client{Transport: &diskCache{
		base:   http.DefaultTransport,
		dir:    dir,
		prefix: prefix,
		period: period,
		today:  date.Today,
	}}
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response into data.
// A 404 response is a wallet.ErrNotFound.
func GetJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	// some APIs reject requests without a user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; wlt)")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("cannot http GET %v%v: %w", req.URL.Host, req.URL.Path, wallet.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
