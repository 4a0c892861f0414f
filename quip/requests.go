package quip

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// request performs one authenticated GET, retrying transient statuses (429
// and 5xx) up to MaxRetries with a linear backoff.  Every failure comes back
// as an *APIError so callers can switch on the category.
func (api *API) request(ctx context.Context, url *url.URL) ([]byte, error) {
	var lastErr *APIError

	for attempt := 0; attempt <= api.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(api.RetryBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, &APIError{
					Category: CategoryNetwork,
					Message:  fmt.Sprintf("request cancelled while backing off: %v", ctx.Err()),
					Err:      ctx.Err(),
				}
			}
		}

		body, apiErr := api.attempt(ctx, url)
		if apiErr == nil {
			return body, nil
		}

		lastErr = apiErr
		if !retryable(apiErr) {
			return nil, apiErr
		}
	}

	return nil, lastErr
}

func retryable(e *APIError) bool {
	if e.Category == CategoryRateLimited {
		return true
	}
	return e.StatusCode >= 500 && e.StatusCode < 600
}

func (api *API) attempt(ctx context.Context, url *url.URL) ([]byte, *APIError) {
	req, err := http.NewRequestWithContext(ctx, "GET", url.String(), nil)
	if err != nil {
		return nil, &APIError{
			Category: CategoryNetwork,
			Message:  fmt.Sprintf("couldn't instantiate http request: %v", err),
			Err:      err,
		}
	}

	req.Header.Add("Accept", "application/json, */*")
	req.Header.Set("Authorization", "Bearer "+api.token)

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, &APIError{
			Category: CategoryNetwork,
			Message:  fmt.Sprintf("couldn't perform http request: %v", err),
			Err:      err,
		}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &APIError{
			Category: CategoryNetwork,
			Message:  fmt.Sprintf("couldn't read http response body: %v", err),
			Err:      err,
		}
	}

	if err := response.Body.Close(); err != nil {
		return nil, &APIError{
			Category: CategoryNetwork,
			Message:  fmt.Sprintf("couldn't close response body: %v", err),
			Err:      err,
		}
	}

	switch response.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, &APIError{
			Category:   CategoryUnauthorized,
			StatusCode: response.StatusCode,
			Message:    "authentication failed, please check your access token",
		}
	case http.StatusForbidden:
		return nil, &APIError{
			Category:   CategoryForbidden,
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("access denied: %s", url.Path),
		}
	case http.StatusNotFound:
		return nil, &APIError{
			Category:   CategoryNotFound,
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("not found: %s", url.Path),
		}
	case http.StatusTooManyRequests:
		return nil, &APIError{
			Category:   CategoryRateLimited,
			StatusCode: response.StatusCode,
			Message:    "rate limited by Quip",
		}
	}

	return nil, &APIError{
		Category:   CategoryNetwork,
		StatusCode: response.StatusCode,
		Message:    fmt.Sprintf("unexpected HTTP response status: %s: %s", response.Status, url.Path),
	}
}
