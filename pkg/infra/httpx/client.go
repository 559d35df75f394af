package httpx

import "net/http"

// Client is the outbound HTTP contract shared by classifiers and result sinks.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
