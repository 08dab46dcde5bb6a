// Package strava fetches activities and segments from the Strava v3 API.
package strava

import (
	"context"
	"fmt"
	"net/http"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
	xhttp "PortTrack/pkg/http"
)

const sourceName = "strava"

// rawActivity is the API activity payload. Heart rates are absent for
// activities recorded without a monitor, so they stay pointers.
type rawActivity struct {
	ID               uint64   `json:"id"`
	Name             string   `json:"name"`
	AverageHeartrate *float64 `json:"average_heartrate"`
	MaxHeartrate     *float64 `json:"max_heartrate"`
	SegmentEfforts   []struct {
		Segment models.Segment `json:"segment"`
	} `json:"segment_efforts"`
}

// Client implements repository.ActivitySource against the Strava API.
type Client struct {
	http    *xhttp.Client
	baseURL string
	token   string
}

func NewClient(http *xhttp.Client, baseURL, token string) *Client {
	return &Client{http: http, baseURL: baseURL, token: token}
}

var _ repository.ActivitySource = (*Client)(nil)

// FetchActivity retrieves one activity with all its segment efforts.
func (c *Client) FetchActivity(ctx context.Context, id uint64) (models.Activity, error) {
	var raw rawActivity
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/activities/%d", c.baseURL, id),
		Headers: c.authHeaders(),
		QueryParams: map[string][]string{
			"include_all_efforts": {"true"},
		},
	}, &raw)
	if err != nil {
		return models.Activity{}, repository.NewFetchError(sourceName, fmt.Sprintf("activity %d", id), err)
	}

	activity := models.Activity{
		ID:               raw.ID,
		Name:             raw.Name,
		AverageHeartrate: raw.AverageHeartrate,
		MaxHeartrate:     raw.MaxHeartrate,
	}
	for _, effort := range raw.SegmentEfforts {
		activity.Segments = append(activity.Segments, effort.Segment)
	}
	return activity, nil
}

// FetchSegment retrieves one segment by id.
func (c *Client) FetchSegment(ctx context.Context, id uint64) (models.Segment, error) {
	var segment models.Segment
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/segments/%d", c.baseURL, id),
		Headers: c.authHeaders(),
	}, &segment)
	if err != nil {
		return models.Segment{}, repository.NewFetchError(sourceName, fmt.Sprintf("segment %d", id), err)
	}
	return segment, nil
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.token}
}
