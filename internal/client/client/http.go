package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

type challengeEnvelope struct {
	Data models.Challenge `json:"data"`
}

type noteEnvelope struct {
	Note models.Note `json:"note"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

// HTTPClient talks to the sharing service over HTTP/JSON.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// NewHTTPClient returns a client for the service rooted at baseURL, for
// example "http://127.0.0.1:8080/api/notes". A zero timeout selects 10s.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (c *HTTPClient) GetChallenge(ctx context.Context) (*models.Challenge, error) {
	var out challengeEnvelope
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/verification-code", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) ShareNote(ctx context.Context, note *models.Note, captcha string) (*models.Note, error) {
	body, err := json.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("marshal note: %w", err)
	}

	headers := map[string]string{common.CaptchaHeaderName: captcha}

	var out noteEnvelope
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body), headers, &out); err != nil {
		return nil, err
	}
	return &out.Note, nil
}

func (c *HTTPClient) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	var out noteEnvelope
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Note, nil
}

func (c *HTTPClient) do(ctx context.Context, method, url string, body io.Reader, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.log.Debug(ctx, "sharing service request", "method", method, "url", url, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg messageEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil || msg.Message == "" {
			msg.Message = http.StatusText(resp.StatusCode)
		}
		c.log.Warn(ctx, "sharing service rejected request",
			"status", resp.StatusCode, "message", msg.Message, "request_id", requestID)
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
