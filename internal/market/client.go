package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/bharti-kisan/agriguide/internal/common"
)

// ErrMissingAPIKey is returned when no data.gov.in key is configured.
var ErrMissingAPIKey = errors.New("missing data.gov.in api key")

// DefaultBaseURL is the AGMARKNET daily price resource.
const DefaultBaseURL = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

// Client queries AGMARKNET and caches answers per query.
type Client struct {
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	ttl   time.Duration
	mu    sync.Mutex
	cache map[PriceQuery]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	at   time.Time
	rows []PriceRow
}

// NewClient creates a Client. ttl <= 0 disables caching.
func NewClient(client *http.Client, apiKey, baseURL string, ttl time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewBreaker("agmarknet"),
		ttl:     ttl,
		cache:   make(map[PriceQuery]cacheEntry),
		now:     time.Now,
	}
}

// FetchPrices returns rows matching the query. Text filters are applied by
// the upstream; the date range is applied locally.
func (c *Client) FetchPrices(ctx context.Context, q PriceQuery) ([]PriceRow, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}

	if rows, ok := c.cached(q); ok {
		return rows, nil
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("api-key", c.apiKey)
		values.Set("format", "json")
		values.Set("limit", strconv.Itoa(q.Limit))
		values.Set("offset", strconv.Itoa(q.Offset))

		filters := []struct{ field, value string }{
			{"commodity", q.Commodity},
			{"state", q.State},
			{"district", q.District},
			{"market", q.Market},
			{"variety", q.Variety},
			{"grade", q.Grade},
		}
		for _, f := range filters {
			if v := strings.TrimSpace(f.value); v != "" {
				values.Add("filters["+f.field+"]", v)
			}
		}

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Records []PriceRow `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode agmarknet response: %w", err)
	}

	rows := FilterByDate(payload.Records, q.From, q.To)
	if rows == nil {
		rows = []PriceRow{}
	}
	log.Printf("DEBUG: agmarknet returned %d rows (%d after date filter) for %q", len(payload.Records), len(rows), q.Commodity)

	c.store(q, rows)
	return rows, nil
}

func (c *Client) cached(q PriceQuery) ([]PriceRow, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache[q]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.at) >= c.ttl {
		delete(c.cache, q)
		return nil, false
	}
	return slices.Clone(e.rows), true
}

func (c *Client) store(q PriceQuery, rows []PriceRow) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[q] = cacheEntry{at: c.now(), rows: slices.Clone(rows)}
}
