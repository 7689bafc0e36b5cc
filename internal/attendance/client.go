package attendance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nfrund/attendance/internal/domain"
)

const maxResponseBytes = 1 << 20

// Checker records attendance for a session after authenticating the user.
type Checker interface {
	Check(ctx context.Context, sessionID string, creds Credentials, cookies []*http.Cookie) (*Result, error)
}

// Result is the success body of an attendance check.
type Result struct {
	Username string `json:"username"`
}

// DisplayName returns the username reported by the backend, or fallback
// when the backend omitted it.
func (r *Result) DisplayName(fallback string) string {
	if r == nil || r.Username == "" {
		return fallback
	}
	return r.Username
}

// RequestError is returned when the backend answers with a non-2xx status.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("attendance check failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("attendance check failed with status %d: %s", e.StatusCode, e.Message)
}

// MessageFor returns the user-facing message for a failed check: the
// backend's message when it sent one, the generic network error otherwise.
func MessageFor(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return domain.MsgNetworkError
}

// Client talks to the attendance backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CheckURL builds {base}/attendance/check?session=<id>.
func (c *Client) CheckURL(sessionID string) string {
	q := url.Values{}
	q.Set(SessionParam, sessionID)
	return c.baseURL + "/attendance/check?" + q.Encode()
}

// Check posts the credentials to the backend. The caller's cookies are
// forwarded so the backend sees the browser's credentials.
func (c *Client) Check(ctx context.Context, sessionID string, creds Credentials, cookies []*http.Cookie) (*Result, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	checkURL := c.CheckURL(sessionID)
	slog.DebugContext(ctx, "Checking attendance", "url", checkURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, checkURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("attendance request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(payload, &errBody)
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}

	// A success body that is not a JSON object still counts as success.
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		slog.DebugContext(ctx, "Attendance response was not JSON", "error", err)
	}
	slog.DebugContext(ctx, "Attendance check result", "status", resp.StatusCode, "username", result.Username)
	return &result, nil
}
