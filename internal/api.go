package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failed response is kept in StatusError
const maxErrorBody = 512

// StatusError is returned when a backend answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

// DoJSON sends a request with an optional JSON body and decodes a JSON
// response into out. Transport failures, non-2xx statuses, and decode
// failures are all returned as errors.
func DoJSON(ctx context.Context, client *http.Client, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(respBody) > maxErrorBody {
			respBody = respBody[:maxErrorBody]
		}
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(bytes.TrimSpace(respBody))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
