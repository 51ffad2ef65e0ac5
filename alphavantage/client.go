// Package alphavantage fetches daily stock records from the AlphaVantage
// TIME_SERIES_DAILY API.
package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/etnz/stocklots"
	"github.com/etnz/stocklots/date"
	"github.com/gocarina/gocsv"
)

// DefaultBaseURL is the AlphaVantage query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// ErrAPI is returned when AlphaVantage answers with an error message
// instead of data: unknown symbol, rate limit or invalid key.
var ErrAPI = errors.New("alphavantage error")

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string // defaults to DefaultBaseURL
	Timeout time.Duration
	// CacheDir keeps responses on disk for the day. No cache when empty.
	CacheDir string
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client is a stocklots.Provider backed by AlphaVantage.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ stocklots.Provider = (*Client)(nil)

// New returns a Client.
func New(opts Options) *Client {
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opts.CacheDir != "" {
		transport = &diskCache{base: transport, dir: opts.CacheDir, accept: isData, today: date.Today}
	}
	c := &Client{
		apiKey:  opts.APIKey,
		baseURL: opts.BaseURL,
		client:  &http.Client{Transport: transport, Timeout: opts.Timeout},
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	return c
}

// Fetch returns the full daily history of symbol.
func (c *Client) Fetch(symbol string) ([]stocklots.DailyRecord, error) {
	return c.FetchContext(context.Background(), symbol)
}

// FetchContext is like Fetch with a context.
func (c *Client) FetchContext(ctx context.Context, symbol string) ([]stocklots.DailyRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing api key, set ALPHAVANTAGE_API_KEY", ErrAPI)
	}
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("outputsize", "full")
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)
	q.Set("datatype", "csv")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v for %s: %v", resp.Request.URL.Host, resp.Request.URL.Path, symbol, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s daily records: %w", symbol, err)
	}
	if err := apiError(body); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return parseDaily(body)
}

// row is a line of the TIME_SERIES_DAILY csv.
type row struct {
	Timestamp string  `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    int64   `csv:"volume"`
}

// parseDaily decodes the csv body, most recent record first.
func parseDaily(body []byte) ([]stocklots.DailyRecord, error) {
	var rows []row
	if err := gocsv.UnmarshalBytes(body, &rows); err != nil {
		return nil, fmt.Errorf("invalid daily records: %w", err)
	}
	records := make([]stocklots.DailyRecord, 0, len(rows))
	for _, r := range rows {
		on, err := date.ParseStrict(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("invalid daily record: %w", err)
		}
		records = append(records, stocklots.DailyRecord{
			Date:   on,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return records, nil
}

// apiError returns an ErrAPI when body is one of the JSON messages
// AlphaVantage sends instead of data.
func apiError(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var msg map[string]any
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return fmt.Errorf("%w: unexpected response %q", ErrAPI, string(trimmed))
	}
	for _, k := range []string{"Error Message", "Information", "Note"} {
		if v, ok := msg[k]; ok {
			return fmt.Errorf("%w: %v", ErrAPI, v)
		}
	}
	return fmt.Errorf("%w: unexpected response with %s", ErrAPI, strings.Join(slices.Sorted(maps.Keys(msg)), ","))
}

// isData reports whether body holds records rather than an error message.
func isData(body []byte) bool { return apiError(body) == nil }
