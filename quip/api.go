package quip

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public Quip platform API.
const DefaultBaseURL = "https://platform.quip.com"

func NewAPI(baseURL string, token string) (*API, error) {
	if token == "" {
		return &API{}, fmt.Errorf("quip: auth token is empty, please check your token source")
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI:      u,
		token:        token,
		MaxRetries:   3,
		RetryBackoff: time.Second,
	}
	a.Client = &http.Client{}

	return a, nil
}

type API struct {
	// Where the platform API lives, e.g. https://platform.quip.com
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// How often to re-attempt a request that failed with a transient
	// status (429 or 5xx), and how long to wait between attempts.
	MaxRetries   int
	RetryBackoff time.Duration

	// Auth info
	token string
}
