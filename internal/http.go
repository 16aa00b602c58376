package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// HeaderTransport is a custom RoundTripper that adds default headers to requests
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers http.Header
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	for key, values := range t.Headers {
		if req.Header.Get(key) != "" {
			continue
		}
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// ClientOptions configures a backend HTTP client
type ClientOptions struct {
	// BearerToken is sent as "Authorization: Bearer <token>" when set
	BearerToken string
	Timeout     time.Duration
	Retries     int
	Logger      *slog.Logger
}

// NewClient returns an *http.Client for one backend.
// The client is bounded by opts.Timeout per attempt and retries transient
// failures at most opts.Retries times.
func NewClient(opts ClientOptions) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.Retries
	retryClient.RetryWaitMin = 250 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.HTTPClient.Timeout = opts.Timeout
	retryClient.Logger = nil
	if opts.Logger != nil {
		retryClient.Logger = opts.Logger
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	if opts.BearerToken != "" {
		headers.Set("Authorization", "Bearer "+opts.BearerToken)
	}
	retryClient.HTTPClient.Transport = &HeaderTransport{
		Base:    retryClient.HTTPClient.Transport,
		Headers: headers,
	}

	// Hand back the final response instead of a "giving up" error so that
	// callers see the upstream status code.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return retryClient.StandardClient()
}
