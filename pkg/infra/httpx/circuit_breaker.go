package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

type CircuitBreaker interface {
	Execute(fn func() error) error
	State() string
}

type circuitBreakerWrapper struct {
	breaker *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(name string, timeout time.Duration, maxFailures uint32) CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}
	return &circuitBreakerWrapper{
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (g *circuitBreakerWrapper) Execute(fn func() error) error {
	_, err := g.breaker.Execute(func() (res interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic recovered: %v", r)
			}
		}()
		return nil, fn()
	})
	if err != nil {
		return fmt.Errorf("breaker (%s): %w", g.breaker.Name(), err)
	}
	return nil
}

func (g *circuitBreakerWrapper) State() string {
	return g.breaker.State().String()
}

var errUpstreamUnavailable = errors.New("upstream returned server error")

type breakerClient struct {
	next    Client
	breaker CircuitBreaker
}

// NewBreakerClient guards next with breaker. Transport errors and 5xx answers count as
// failures; 5xx responses are still handed back to the caller so it can read the body.
// Nothing is retried.
func NewBreakerClient(next Client, breaker CircuitBreaker) Client {
	return &breakerClient{next: next, breaker: breaker}
}

func (c *breakerClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	err := c.breaker.Execute(func() error {
		var err error
		resp, err = c.next.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return errUpstreamUnavailable
		}
		return nil
	})
	if err != nil && errors.Is(err, errUpstreamUnavailable) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
