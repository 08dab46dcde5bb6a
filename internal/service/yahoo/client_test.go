package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortTrack/internal/domain/repository"
	xhttp "PortTrack/pkg/http"
)

const chartBody = `{
  "chart": {
    "result": [
      {
        "timestamp": [1700000000, 1700086400],
        "indicators": {
          "quote": [
            {
              "open":   [180.1, 182.0],
              "high":   [183.5, 184.2],
              "low":    [179.9, 181.4],
              "close":  [182.9, 183.7],
              "volume": [52000000, 48000000]
            }
          ]
        }
      }
    ],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(xhttp.NewClient(), srv.URL)
}

func TestFetchQuotesParsesChart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		w.Write([]byte(chartBody))
	})

	quotes, err := c.FetchQuotes(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, int64(1700000000), quotes[0].Timestamp)
	assert.Equal(t, 182.9, quotes[0].Close)
	assert.Equal(t, 183.7, quotes[1].Close)
	assert.Equal(t, 181.4, quotes[1].Low)
	assert.Equal(t, 48000000.0, quotes[1].Volume)
}

func TestFetchQuotesServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := c.FetchQuotes(context.Background(), "AAPL")
	require.Error(t, err)

	var fetchErr *repository.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "yahoo", fetchErr.Source)
	assert.Equal(t, "AAPL", fetchErr.Ref)
}

func TestFetchQuotesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := c.FetchQuotes(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestFetchQuotesEmptyResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})

	_, err := c.FetchQuotes(context.Background(), "AAPL")
	require.Error(t, err)
}
