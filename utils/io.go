package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// HttpStatusError reports a non-2xx response from a remote service.
type HttpStatusError struct {
	StatusCode int
	Url        string
}

func (e *HttpStatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d from %s", e.StatusCode, e.Url)
}

// GetRequestReturnBody issues a GET request against the given url and returns
// the raw response body. Non-2xx statuses are surfaced as *HttpStatusError.
func GetRequestReturnBody(ctx context.Context, client *http.Client, requestUrl string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", requestUrl, err)
	}

	response, responseErr := client.Do(request)
	if responseErr != nil {
		return nil, responseErr
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &HttpStatusError{StatusCode: response.StatusCode, Url: requestUrl}
	}

	body, readErr := io.ReadAll(response.Body)
	if readErr != nil {
		return nil, fmt.Errorf("reading response body from %s: %w", requestUrl, readErr)
	}

	return body, nil
}

// FailureKind buckets a request error for logging
// (timeout / http_status / transport).
func FailureKind(err error) string {
	var statusErr *HttpStatusError
	var netErr net.Error

	switch {
	case errors.As(err, &statusErr):
		return "http_status"
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	default:
		return "transport"
	}
}
