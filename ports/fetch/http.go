package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrURLRequired is returned by NewJSON when no URL function is given.
var ErrURLRequired = errors.New("url function is required")

// JSONOptions configures a JSONFetcher.
type JSONOptions[K comparable] struct {
	// URL maps a key to the request URL. Required.
	URL func(K) string

	// Client defaults to http.DefaultClient.
	Client *http.Client

	// Header is added to every request (e.g. Authorization).
	Header http.Header
}

// JSONFetcher fetches values with HTTP GET and decodes the JSON body.
// HTTP outcomes map onto error kinds: transport failures are KindNetwork,
// 401/403 KindAuth, 429 KindRateLimit, 5xx KindServer, undecodable bodies
// KindDecode, every other non-2xx KindUnknown.
type JSONFetcher[K comparable, V any] struct {
	url    func(K) string
	client *http.Client
	header http.Header
}

// NewJSON creates an HTTP/JSON fetcher.
func NewJSON[K comparable, V any](opts JSONOptions[K]) (*JSONFetcher[K, V], error) {
	if opts.URL == nil {
		return nil, ErrURLRequired
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	return &JSONFetcher[K, V]{
		url:    opts.URL,
		client: opts.Client,
		header: opts.Header,
	}, nil
}

func (f *JSONFetcher[K, V]) Fetch(ctx context.Context, key K) (out V, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url(key), nil)
	if err != nil {
		return out, NewError(KindUnknown, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range f.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return out, NewError(KindNetwork, 0, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return out, NewError(KindAuth, resp.StatusCode, nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return out, NewError(KindRateLimit, resp.StatusCode, nil)
	case resp.StatusCode >= 500:
		return out, NewError(KindServer, resp.StatusCode, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return out, NewError(KindUnknown, resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		var zero V
		return zero, NewError(KindDecode, resp.StatusCode, err)
	}
	return out, nil
}

var _ Fetcher[string, any] = (*JSONFetcher[string, any])(nil)
