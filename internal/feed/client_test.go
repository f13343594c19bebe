package feed

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureFetcher records the URL it was asked for and returns a canned
// response.
type captureFetcher struct {
	url  string
	body []byte
	err  error
}

func (f *captureFetcher) Get(_ context.Context, rawURL string) ([]byte, error) {
	f.url = rawURL
	return f.body, f.err
}

func TestClient_Fetch_BuildsURL(t *testing.T) {
	fake := &captureFetcher{body: []byte("<response/>")}
	c := NewClient(ClientOptions{
		BaseURL:    "https://openapi.example.go.kr/service/rest/",
		ServiceKey: "abc+def/ghi==",
		Fetcher:    fake,
	})

	body, err := c.Fetch(context.Background(), "getRoadInfoList", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("<response/>"), body)
	assert.Equal(t,
		"https://openapi.example.go.kr/service/rest/getRoadInfoList?serviceKey=abc%2Bdef%2Fghi%3D%3D",
		fake.url)
}

func TestClient_Fetch_ExtraParams(t *testing.T) {
	fake := &captureFetcher{body: []byte("<response/>")}
	c := NewClient(ClientOptions{
		BaseURL:    "https://openapi.example.go.kr/service/rest",
		ServiceKey: "key",
		Fetcher:    fake,
	})

	extra := url.Values{}
	extra.Set("laeId", "1")
	extra.Set("numOfRows", "500")

	_, err := c.Fetch(context.Background(), "getParkingPlaceInfoList", extra)
	require.NoError(t, err)
	assert.Equal(t,
		"https://openapi.example.go.kr/service/rest/getParkingPlaceInfoList?serviceKey=key&laeId=1&numOfRows=500",
		fake.url)
}

func TestClient_Fetch_MissingConfiguration(t *testing.T) {
	tests := []struct {
		name string
		opts ClientOptions
	}{
		{"no base url", ClientOptions{ServiceKey: "key", Fetcher: &captureFetcher{}}},
		{"no service key", ClientOptions{BaseURL: "https://x", Fetcher: &captureFetcher{}}},
		{"blank after trim", ClientOptions{BaseURL: "  ", ServiceKey: " ", Fetcher: &captureFetcher{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := tt.opts.Fetcher.(*captureFetcher)
			_, err := NewClient(tt.opts).Fetch(context.Background(), "getRoadInfoList", nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			assert.Empty(t, fake.url, "no request should be made")
		})
	}
}

func TestClient_Fetch_TransportError(t *testing.T) {
	fake := &captureFetcher{err: errors.New("connection refused")}
	c := NewClient(ClientOptions{
		BaseURL:    "https://openapi.example.go.kr/service/rest",
		ServiceKey: "key",
		Fetcher:    fake,
		Timeout:    5 * time.Second,
	})

	_, err := c.Fetch(context.Background(), "getRoadInfoList", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Contains(t, err.Error(), "connection refused")
}
