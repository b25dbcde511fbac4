package flights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const sampleResponse = `{
  "search_metadata": {"id": "abc", "status": "Success"},
  "best_flights": [
    {
      "price": 5400,
      "airline": "IndiGo",
      "airline_logo": "https://logo/6E.png",
      "total_duration": 130,
      "booking_token": "tok1",
      "flights": [
        {
          "departure_airport": {"name": "Mumbai", "id": "BOM", "time": "2025-03-06 18:20"},
          "arrival_airport": {"name": "Delhi", "id": "DEL", "time": "2025-03-06 20:30"},
          "airline": "IndiGo"
        }
      ]
    },
    {"airline": "Air India"}
  ]
}`

func testRequest() SearchRequest {
	return SearchRequest{
		Origin:       "BOM",
		Destination:  "DEL",
		OutboundDate: time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
		ReturnDate:   time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
	}
}

func newTestClient(url string, retries int) *Client {
	c := NewClient(ClientConfig{APIKey: "secret", BaseURL: url, MaxRetries: retries, Timeout: time.Second})
	c.backoff = time.Millisecond
	return c
}

func TestClientSearchSendsProviderParams(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{}
		for k := range q {
			got[k] = q.Get(k)
		}
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL, 0).Search(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"engine":        "google_flights",
		"departure_id":  "BOM",
		"arrival_id":    "DEL",
		"outbound_date": "2025-03-06",
		"return_date":   "2025-03-11",
		"currency":      "INR",
		"hl":            "en",
		"api_key":       "secret",
	}, got)

	require.Len(t, result.BestFlights, 2)
	first := result.BestFlights[0]
	assert.Equal(t, "IndiGo", first.Airline)
	require.NotNil(t, first.Price)
	assert.Equal(t, 5400.0, *first.Price)
	assert.Equal(t, "INR", first.Currency)
	assert.Equal(t, "BOM", first.Flights[0].DepartureAirport.IATA)
	assert.Equal(t, "DEL", first.Flights[0].ArrivalAirport.IATA)
	assert.Nil(t, result.BestFlights[1].Price)
}

func TestClientSearchMissingBestFlights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"search_metadata": {"status": "Success"}}`))
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL, 0).Search(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Nil(t, result.BestFlights)
	assert.Empty(t, CheapestFlights(result))
}

func TestClientSearchRetriesTemporaryFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL, 2).Search(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Len(t, result.BestFlights, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientSearchGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Search(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrTemporary)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientSearchProviderErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid API key."}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).Search(context.Background(), testRequest())
	require.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "Invalid API key.")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientSearchRequiresCredential(t *testing.T) {
	c := NewClient(ClientConfig{})
	_, err := c.Search(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestCacheKey(t *testing.T) {
	req := testRequest()
	req.Currency = "inr"
	req.Locale = "EN"
	assert.Equal(t, "flights:search:BOM:DEL:2025-03-06:2025-03-11:INR:en", CacheKey(req))
}

type countingSearcher struct{ calls int32 }

func (c *countingSearcher) Search(context.Context, SearchRequest) (*SearchResult, error) {
	atomic.AddInt32(&c.calls, 1)
	return &SearchResult{}, nil
}

func TestRateLimitedSearcherHonoursContext(t *testing.T) {
	next := &countingSearcher{}
	s := NewRateLimitedSearcher(next, rate.NewLimiter(rate.Every(time.Hour), 1))

	_, err := s.Search(context.Background(), testRequest())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = s.Search(ctx, testRequest())
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&next.calls))
}
