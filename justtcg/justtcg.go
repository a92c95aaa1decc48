// Package justtcg implements the client for the batch card-pricing API.
//
// The service answers one POST with prices for a whole list of marketplace
// product ids, metered per rolling minute. The client deduplicates and
// chunks the identifiers, paces the calls through a shared rate limiter,
// and maps every requested id to a Quote, including the ids whose chunk
// failed, so the caller never has to guess what went missing.
package justtcg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"cardstock"
	"cardstock/ratelimit"
)

const apiKeyEnv = "JUSTTCG_API_KEY"

var apiKeyFlag = flag.String("justtcg-api-key", "", "JustTCG API key for fetching card prices.\n If missing it will be read from the environment variable \""+apiKeyEnv+"\".")

// APIKey returns the configured API key, from the flag or the environment.
func APIKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *apiKeyFlag == "" {
		*apiKeyFlag = os.Getenv(apiKeyEnv)
	}
	return *apiKeyFlag
}

const (
	// DefaultBaseURL is the production endpoint of the pricing service.
	DefaultBaseURL = "https://api.justtcg.com/v1"
	// DefaultChunkSize is the number of lookup objects per batch call.
	// Plan limits allow 20–100; 40 keeps the payloads comfortably small.
	DefaultChunkSize = 40
	// DefaultMaxCallsPerMinute is the service's rolling-minute call budget.
	DefaultMaxCallsPerMinute = 30
	// DefaultTargetCondition is the variant condition the shop sells.
	DefaultTargetCondition = "Sealed"
	// DefaultMaxPrice is the sanity bound: a reported price above it is
	// rejected as invalid rather than propagated into the catalog.
	DefaultMaxPrice = 10_000
)

// Client fetches batch prices. The zero value is not usable; use New.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
	Limiter *ratelimit.Limiter

	ChunkSize       int
	TargetCondition string
	MaxPrice        float64
}

// New returns a client with production defaults and its own rolling-minute
// limiter. Call sites that must share one call budget should assign the
// same Limiter to every client they build.
func New(apiKey string) *Client {
	return &Client{
		APIKey:          apiKey,
		BaseURL:         DefaultBaseURL,
		HTTP:            http.DefaultClient,
		Limiter:         ratelimit.New(DefaultMaxCallsPerMinute),
		ChunkSize:       DefaultChunkSize,
		TargetCondition: DefaultTargetCondition,
		MaxPrice:        DefaultMaxPrice,
	}
}

// FetchPrices resolves one Quote per identifier.
//
// Identifiers are deduplicated and split into fixed-size chunks; each chunk
// costs one rate-limited call. A chunk whose call fails, times out or
// returns an unusable payload is logged and skipped whole: its identifiers
// get a FETCH_FAILED quote and the other chunks are unaffected. Only a
// missing API key or a cancelled context abort the run.
func (c *Client) FetchPrices(ctx context.Context, ids []string) (map[string]cardstock.Quote, error) {
	if c.APIKey == "" {
		return nil, errors.New("JustTCG API key is not set. Use -justtcg-api-key flag or " + apiKeyEnv + " environment variable")
	}

	ids = dedupe(ids)
	quotes := make(map[string]cardstock.Quote, len(ids))

	for _, chunk := range chunks(ids, c.chunkSize()) {
		if err := c.Limiter.Acquire(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter interrupted: %w", err)
		}

		cards, err := c.fetchChunk(ctx, chunk)
		if err != nil {
			log.Printf("warning: batch of %d identifiers skipped: %v", len(chunk), err)
			for _, id := range chunk {
				quotes[id] = cardstock.Quote{Reason: cardstock.ReasonFetchFailed}
			}
			continue
		}

		for _, id := range chunk {
			card, ok := cards[id]
			if !ok {
				quotes[id] = cardstock.Quote{Reason: cardstock.ReasonNotFound}
				continue
			}
			quotes[id] = c.pick(card)
		}
	}
	return quotes, nil
}

// card is the relevant part of one returned card object.
type card struct {
	name     string
	setName  string
	variants []variant
}

type variant struct {
	condition string
	price     float64
	hasPrice  bool
}

// fetchChunk issues one batch call and indexes the returned cards by id.
func (c *Client) fetchChunk(ctx context.Context, chunk []string) (map[string]card, error) {
	lookups := make([]map[string]string, 0, len(chunk))
	for _, id := range chunk {
		lookups = append(lookups, map[string]string{"tcgplayerId": id})
	}
	body, err := json.Marshal(lookups)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal lookup list: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/cards", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot POST %v/cards: %v", req.URL.Host, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseCards(payload)
}

// parseCards tolerates the two known envelope shapes: a bare array of card
// objects, or an object with a "data" array. Anything else is a batch-level
// shape error.
func parseCards(payload []byte) (map[string]card, error) {
	var jobj any
	if err := json.Unmarshal(payload, &jobj); err != nil {
		return nil, fmt.Errorf("response is not valid json: %w", err)
	}

	jcards, ok := jobj.([]any)
	if !ok {
		// probe for the enveloped shape
		jval, err := jsonpath.Get("$.data", jobj)
		if err != nil {
			return nil, fmt.Errorf("unexpected response shape: neither an array nor an object with a data array")
		}
		if jcards, ok = jval.([]any); !ok {
			return nil, fmt.Errorf("unexpected response shape: data is not an array")
		}
	}

	cards := make(map[string]card, len(jcards))
	for _, jc := range jcards {
		jcard, ok := jc.(map[string]any)
		if !ok {
			continue
		}
		id := looseString(jcard["tcgplayerId"])
		if id == "" {
			continue
		}
		cd := card{
			name:    looseString(jcard["name"]),
			setName: looseString(jcard["set"]),
		}
		if jvars, ok := jcard["variants"].([]any); ok {
			for _, jv := range jvars {
				jvar, ok := jv.(map[string]any)
				if !ok {
					continue
				}
				v := variant{condition: looseString(jvar["condition"])}
				v.price, v.hasPrice = loosePrice(jvar["price"])
				cd.variants = append(cd.variants, v)
			}
		}
		cards[id] = cd
	}
	return cards, nil
}

// pick applies the variant-selection policy: prefer the variant whose
// condition exactly matches the target, otherwise fall back to the first
// variant carrying a price. The fallback can select an unrelated
// condition's price; that is long-standing observed behavior, kept and
// logged rather than corrected.
func (c *Client) pick(cd card) cardstock.Quote {
	q := cardstock.Quote{Name: cd.name, SetName: cd.setName}

	chosen := -1
	for i, v := range cd.variants {
		if v.condition == c.targetCondition() && v.hasPrice {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		for i, v := range cd.variants {
			if v.hasPrice {
				log.Printf("no %q variant for %q, falling back to condition %q", c.targetCondition(), cd.name, v.condition)
				chosen = i
				break
			}
		}
	}
	if chosen < 0 {
		q.Reason = cardstock.ReasonNoVariants
		return q
	}

	price := cd.variants[chosen].price
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 || price > c.maxPrice() {
		q.Reason = cardstock.ReasonInvalidPrice
		return q
	}
	m := cardstock.USD(price).Round()
	q.Price = &m
	return q
}

func (c *Client) chunkSize() int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	return DefaultChunkSize
}

func (c *Client) targetCondition() string {
	if c.TargetCondition != "" {
		return c.TargetCondition
	}
	return DefaultTargetCondition
}

func (c *Client) maxPrice() float64 {
	if c.MaxPrice > 0 {
		return c.MaxPrice
	}
	return DefaultMaxPrice
}

// dedupe preserves first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunks(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

// looseString reads a value that older service versions emit either as a
// string or as a number.
func looseString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// loosePrice reads a price that the service sometimes emits as a string
// with a comma decimal separator.
func loosePrice(v any) (float64, bool) {
	switch p := v.(type) {
	case float64:
		return p, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(p), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
