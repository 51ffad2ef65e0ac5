package alphavantage

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/etnz/stocklots"
	"github.com/etnz/stocklots/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ibmCSV = `timestamp,open,high,low,close,volume
2024-03-12,192.4600,193.8900,191.4000,191.7300,4158136
2024-03-11,195.0900,195.3800,190.8800,191.7300,4712744
2024-03-08,196.0600,197.7700,194.3800,195.9500,3943225
`

// newServer serves body for every request and counts them.
func newServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "TIME_SERIES_DAILY", q.Get("function"))
		assert.Equal(t, "full", q.Get("outputsize"))
		assert.Equal(t, "csv", q.Get("datatype"))
		assert.Equal(t, "demo", q.Get("apikey"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetch(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, ibmCSV)
	c := New(Options{APIKey: "demo", BaseURL: srv.URL})

	records, err := c.Fetch("IBM")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, stocklots.DailyRecord{
		Date:   date.New(2024, 3, 12),
		Open:   192.46,
		High:   193.89,
		Low:    191.40,
		Close:  191.73,
		Volume: 4158136,
	}, records[0])
	assert.Equal(t, date.New(2024, 3, 8), records[2].Date)
}

func TestFetch_Market(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, ibmCSV)
	today := date.New(2024, 3, 12)
	m := stocklots.NewMarket(New(Options{APIKey: "demo", BaseURL: srv.URL}), stocklots.MarketOptions{Today: func() date.Date { return today }})

	price, err := m.PriceOnOrBefore("IBM", date.New(2024, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, 195.95, price)
}

func TestFetch_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		errAPI bool
	}{
		{name: "unknown symbol", status: http.StatusOK, body: `{"Error Message": "Invalid API call."}`, errAPI: true},
		{name: "rate limit", status: http.StatusOK, body: `{"Information": "Thank you for using Alpha Vantage!"}`, errAPI: true},
		{name: "note", status: http.StatusOK, body: `{"Note": "slow down"}`, errAPI: true},
		{name: "server error", status: http.StatusInternalServerError, body: "oops"},
		{name: "bad csv", status: http.StatusOK, body: "timestamp,open,high,low,close,volume\nyesterday,1,1,1,1,1\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newServer(t, tc.status, tc.body)
			_, err := New(Options{APIKey: "demo", BaseURL: srv.URL}).Fetch("ZZZZ")
			require.Error(t, err)
			if tc.errAPI {
				assert.ErrorIs(t, err, ErrAPI)
			}
		})
	}
}

func TestFetch_MissingKey(t *testing.T) {
	_, err := New(Options{}).Fetch("IBM")
	assert.ErrorIs(t, err, ErrAPI)
}

func TestFetch_Cache(t *testing.T) {
	srv, hits := newServer(t, http.StatusOK, ibmCSV)
	c := New(Options{APIKey: "demo", BaseURL: srv.URL, CacheDir: t.TempDir()})

	for range 3 {
		records, err := c.Fetch("IBM")
		require.NoError(t, err)
		assert.Len(t, records, 3)
	}
	assert.Equal(t, int32(1), hits.Load(), "responses are cached for the day")
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	srv, hits := newServer(t, http.StatusOK, `{"Information": "rate limited"}`)
	c := New(Options{APIKey: "demo", BaseURL: srv.URL, CacheDir: t.TempDir()})

	for range 2 {
		_, err := c.Fetch("IBM")
		assert.ErrorIs(t, err, ErrAPI)
	}
	assert.Equal(t, int32(2), hits.Load())
}
