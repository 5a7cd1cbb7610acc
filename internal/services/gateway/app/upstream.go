package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// NewBreaker trips after `fails` consecutive failures and stays open for
// `openFor`. Counts reset every `interval` while closed.
func NewBreaker(name string, fails int, openFor, interval time.Duration) *gobreaker.CircuitBreaker {
	if fails < 1 {
		fails = 1
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: interval,
		Timeout:  openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
	})
}

// Upstream is one HTTP dependency behind a circuit breaker.
type Upstream struct {
	name    string
	base    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewUpstream(name, base string, timeout time.Duration, breaker *gobreaker.CircuitBreaker) *Upstream {
	return &Upstream{
		name:    name,
		base:    strings.TrimRight(strings.TrimSpace(base), "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

func (u *Upstream) BreakerState() gobreaker.State { return u.breaker.State() }

// GetJSON runs the GET through the breaker and decodes the body into out.
// An unconfigured upstream is not an error; out is left untouched.
func (u *Upstream) GetJSON(ctx context.Context, path string, out any) error {
	if u == nil || u.base == "" {
		return nil
	}
	_, err := u.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.base+normalizePath(path), nil)
		if err != nil {
			return nil, err
		}
		resp, err := u.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request error: %w", u.name, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%s upstream status %d", u.name, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%s decode error: %w", u.name, err)
		}
		return nil, nil
	})
	return err
}

type forwarded struct {
	status int
	body   []byte
}

// Forward relays a request and hands back the upstream's status and body.
// Only transport failures count against the breaker: an answered request
// means the upstream is healthy, whatever it answered.
func (u *Upstream) Forward(ctx context.Context, method, path, contentType string, body io.Reader) (int, []byte, error) {
	if u == nil || u.base == "" {
		return 0, nil, fmt.Errorf("%s upstream not configured", u.name)
	}
	res, err := u.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, method, u.base+normalizePath(path), body)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		resp, err := u.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request error: %w", u.name, err)
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("%s read error: %w", u.name, err)
		}
		return forwarded{status: resp.StatusCode, body: b}, nil
	})
	if err != nil {
		return 0, nil, err
	}
	f := res.(forwarded)
	return f.status, f.body, nil
}

func normalizePath(p string) string {
	return "/" + strings.TrimLeft(strings.TrimSpace(p), "/")
}
