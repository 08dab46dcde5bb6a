// Package yahoo fetches daily OHLCV quotes from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"net/http"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
	xhttp "PortTrack/pkg/http"
)

const sourceName = "yahoo"

// chartResponse mirrors the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Client implements repository.QuoteSource against the chart endpoint.
type Client struct {
	http    *xhttp.Client
	baseURL string
}

func NewClient(http *xhttp.Client, baseURL string) *Client {
	return &Client{http: http, baseURL: baseURL}
}

var _ repository.QuoteSource = (*Client)(nil)

// FetchQuotes returns the daily candles for symbol, most recent last.
func (c *Client) FetchQuotes(ctx context.Context, symbol string) ([]models.Quote, error) {
	var payload chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"range":    {"1d"},
		},
	}, &payload)
	if err != nil {
		return nil, repository.NewFetchError(sourceName, symbol, err)
	}

	if e := payload.Chart.Error; e != nil {
		return nil, repository.NewFetchError(sourceName, symbol, fmt.Errorf("%s: %s", e.Code, e.Description))
	}
	if len(payload.Chart.Result) == 0 {
		return nil, repository.NewFetchError(sourceName, symbol, fmt.Errorf("empty chart result"))
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, repository.NewFetchError(sourceName, symbol, fmt.Errorf("no quote indicators"))
	}
	q := result.Indicators.Quote[0]

	quotes := make([]models.Quote, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) {
			break
		}
		quotes = append(quotes, models.Quote{
			Timestamp: ts,
			Open:      at(q.Open, i),
			High:      at(q.High, i),
			Low:       at(q.Low, i),
			Close:     q.Close[i],
			Volume:    at(q.Volume, i),
		})
	}
	return quotes, nil
}

func at(vs []float64, i int) float64 {
	if i >= len(vs) {
		return 0
	}
	return vs[i]
}
