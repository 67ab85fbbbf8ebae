package ticker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/luca-patrignani/tickerchain/ledger"
)

// DefaultURL is the public blockchain.info exchange rate endpoint.
const DefaultURL = "https://blockchain.info/ticker"

// maxBodySize bounds the response body read from the endpoint.
const maxBodySize = 1 << 20

var (
	errMissingLast   = errors.New(`missing "last" rate`)
	errMissingSymbol = errors.New(`missing "symbol"`)
	errOutOfRange    = errors.New("rate out of integer range")

	ErrResponseTooLarge = fmt.Errorf("ticker response exceeds %d bytes", maxBodySize)
)

// Observation is one ticker entry.
type Observation struct {
	Label  string
	Value  int
	Symbol string
}

// Payload returns the ledger payload committing the observation.
func (o Observation) Payload() ledger.Payload {
	return ledger.Payload{Label: o.Label, Value: o.Value}
}

// Source supplies the observations to commit.
type Source interface {
	Fetch(ctx context.Context) ([]Observation, error)
}

// Client is a Source reading from an HTTP ticker endpoint.
type Client struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

type clientOption func(Client) Client

// NewClient creates a client for url. An empty url selects DefaultURL.
func NewClient(url string, opts ...clientOption) Client {
	if url == "" {
		url = DefaultURL
	}
	c := Client{
		url:    url,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		c = opt(c)
	}
	return c
}

// WithTimeout bounds every fetch, including reading the body.
func WithTimeout(timeout time.Duration) clientOption {
	return func(c Client) Client {
		c.timeout = timeout
		return c
	}
}

// WithHTTPClient replaces http.DefaultClient, e.g. to set a custom transport.
func WithHTTPClient(client *http.Client) clientOption {
	return func(c Client) Client {
		if client != nil {
			c.client = client
		}
		return c
	}
}

// Fetch downloads and parses the ticker. Observations are sorted by label.
func (c Client) Fetch(ctx context.Context) ([]Observation, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: c.url, Status: resp.StatusCode, Err: fmt.Errorf("status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}
	if len(body) > maxBodySize {
		return nil, &FetchError{URL: c.url, Err: ErrResponseTooLarge}
	}
	return Parse(body)
}

type entry struct {
	Last   *float64 `json:"last"`
	Symbol *string  `json:"symbol"`
}

// Parse decodes a ticker document: a JSON object mapping a label to an entry
// with at least a numeric "last" and a string "symbol". Rates are truncated
// toward zero.
func Parse(data []byte) ([]Observation, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc == nil {
		return nil, &ParseError{Err: errors.New("document is null")}
	}

	labels := make([]string, 0, len(doc))
	for label := range doc {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]Observation, 0, len(labels))
	for _, label := range labels {
		o, err := parseEntry(label, doc[label])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func parseEntry(label string, raw json.RawMessage) (Observation, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Observation{}, &ParseError{Label: label, Err: err}
	}
	if e.Last == nil {
		return Observation{}, &ParseError{Label: label, Err: errMissingLast}
	}
	if e.Symbol == nil {
		return Observation{}, &ParseError{Label: label, Err: errMissingSymbol}
	}
	last := math.Trunc(*e.Last)
	if last >= math.MaxInt || last < math.MinInt {
		return Observation{}, &ParseError{Label: label, Err: errOutOfRange}
	}
	return Observation{Label: label, Value: int(last), Symbol: *e.Symbol}, nil
}
