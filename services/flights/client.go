// File: services/flights/client.go
package flights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/git-Adi/agenticAI-Travel/models"

	"go.uber.org/zap"
)

const engineGoogleFlights = "google_flights"

var (
	// ErrTemporary marks failures worth retrying: transport errors, 429 and 5xx.
	ErrTemporary = errors.New("temporary flight provider error")
	// ErrProvider marks a well-formed rejection from the provider.
	ErrProvider          = errors.New("flight provider error")
	ErrMissingCredential = errors.New("flight search credential is not configured")
)

// SearchRequest holds the parameters of one flight search.
type SearchRequest struct {
	Origin       string
	Destination  string
	OutboundDate time.Time
	ReturnDate   time.Time
	Currency     string
	Locale       string
}

// SearchResult is the provider response decoded at the boundary.
// BestFlights is nil when the provider omitted the key.
type SearchResult struct {
	BestFlights    []models.FlightOffer `json:"best_flights,omitempty"`
	OtherFlights   []models.FlightOffer `json:"other_flights,omitempty"`
	SearchMetadata SearchMetadata       `json:"search_metadata"`
	Error          string               `json:"error,omitempty"`
}

type SearchMetadata struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}

// Searcher runs a flight search.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
}

// ClientConfig configures the SerpAPI flight client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Currency   string
	Locale     string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client queries the SerpAPI google_flights engine.
type Client struct {
	apiKey     string
	baseURL    string
	currency   string
	locale     string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	http       *http.Client
	logger     *zap.Logger
}

func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		currency:   cfg.Currency,
		locale:     cfg.Locale,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		backoff:    250 * time.Millisecond,
		http:       cfg.HTTPClient,
		logger:     cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = "https://serpapi.com/search.json"
	}
	if c.currency == "" {
		c.currency = "INR"
	}
	if c.locale == "" {
		c.locale = "en"
	}
	if c.timeout <= 0 {
		c.timeout = 20 * time.Second
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Search issues the request, retrying temporary failures with a doubling backoff.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}
	req = req.WithDefaults(c.currency, c.locale)

	backoff := c.backoff
	for attempt := 0; ; attempt++ {
		result, err := c.searchOnce(ctx, req)
		if err == nil {
			tagCurrency(result, req.Currency)
			return result, nil
		}
		if !errors.Is(err, ErrTemporary) || attempt >= c.maxRetries {
			return nil, err
		}
		c.logger.Warn("Flight search failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

func (c *Client) searchOnce(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(req), nil)
	if err != nil {
		return nil, fmt.Errorf("build flight request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrTemporary, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTemporary, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrTemporary, resp.StatusCode)
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
		}
		return nil, fmt.Errorf("decode flight response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProvider, result.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}
	return &result, nil
}

func (c *Client) buildURL(req SearchRequest) string {
	q := url.Values{}
	q.Set("engine", engineGoogleFlights)
	q.Set("departure_id", req.Origin)
	q.Set("arrival_id", req.Destination)
	q.Set("outbound_date", req.OutboundDate.Format(models.DateLayout))
	q.Set("return_date", req.ReturnDate.Format(models.DateLayout))
	q.Set("currency", req.Currency)
	q.Set("hl", req.Locale)
	q.Set("api_key", c.apiKey)
	return c.baseURL + "?" + q.Encode()
}

// tagCurrency records the request currency on offers, which the provider
// reports only once per response.
func tagCurrency(result *SearchResult, currency string) {
	for i := range result.BestFlights {
		if result.BestFlights[i].Currency == "" {
			result.BestFlights[i].Currency = currency
		}
	}
	for i := range result.OtherFlights {
		if result.OtherFlights[i].Currency == "" {
			result.OtherFlights[i].Currency = currency
		}
	}
}

// WithDefaults fills an empty currency or locale.
func (r SearchRequest) WithDefaults(currency, locale string) SearchRequest {
	if r.Currency == "" {
		r.Currency = currency
	}
	if r.Locale == "" {
		r.Locale = locale
	}
	return r
}

// RequestFromTrip builds the search for a trip; currency and locale are left
// to the client defaults.
func RequestFromTrip(trip models.TripRequest) SearchRequest {
	return SearchRequest{
		Origin:       trip.Origin,
		Destination:  trip.Destination,
		OutboundDate: trip.DepartureDate,
		ReturnDate:   trip.ReturnDate,
	}
}
