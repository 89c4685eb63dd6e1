// Package generation implements the hosted text-generation client: request
// validation, the fixed-schedule retry loop around the inference API and the
// normalization of its replies into plain text.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultEndpoint is the hosted inference endpoint every call is sent to.
const DefaultEndpoint = "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.3"

// Client turns prompts into model output against the hosted inference API.
// A Client holds no per-call state and is safe for concurrent use.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	credentials CredentialProvider
	policy      RetryPolicy
	sleep       SleepFunc
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for every attempt.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithCredentials sets where the bearer token is looked up.
func WithCredentials(p CredentialProvider) ClientOption {
	return func(c *Client) { c.credentials = p }
}

// WithRetryPolicy replaces the default backoff schedule.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) { c.policy = p }
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(fn SleepFunc) ClientOption {
	return func(c *Client) { c.sleep = fn }
}

// WithLogger sets a structured logger for attempt diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithEndpoint points the client at a different inference URL.
func WithEndpoint(url string) ClientOption {
	return func(c *Client) { c.endpoint = url }
}

// NewClient creates a Client reading its token from HUGGINGFACE_API_TOKEN.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		endpoint:    DefaultEndpoint,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		credentials: EnvCredential(TokenEnvVar),
		policy:      DefaultRetryPolicy(),
		sleep:       sleepContext,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// inferencePayload is the JSON body sent to the inference API.
type inferencePayload struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TopP           float64 `json:"top_p"`
	DoSample       bool    `json:"do_sample"`
	ReturnFullText bool    `json:"return_full_text"`
}

func newPayload(r Request) inferencePayload {
	return inferencePayload{
		Inputs: r.Prompt,
		Parameters: inferenceParameters{
			MaxNewTokens:   r.MaxTokens,
			Temperature:    r.Temperature,
			TopP:           r.TopP,
			DoSample:       true,
			ReturnFullText: false,
		},
	}
}

// Generate validates req, then sends it to the inference API, retrying
// transient failures on the client's schedule. Every failure is an *Error.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	token, err := c.credentials.Token()
	if err != nil {
		return nil, configurationError("missing credential", err)
	}

	body, err := json.Marshal(newPayload(req))
	if err != nil {
		return nil, invalidInput("parameters cannot be encoded")
	}

	maxAttempts := c.policy.MaxAttempts()
	var lastErr *Error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		c.logger.DebugContext(ctx, "sending inference request",
			"attempt", attempt+1,
			"max_attempts", maxAttempts,
			"prompt_length", len(req.Prompt))

		resp, aerr := c.do(ctx, token, body)
		if aerr == nil {
			c.logger.DebugContext(ctx, "inference request succeeded", "attempt", attempt+1)
			return resp, nil
		}

		if !aerr.Retryable() {
			c.logger.WarnContext(ctx, "permanent inference failure",
				"attempt", attempt+1,
				"status", aerr.Status,
				"error", aerr)
			return nil, aerr
		}

		lastErr = aerr
		if attempt == maxAttempts-1 {
			break
		}

		delay := c.policy.Delay(attempt)
		c.logger.InfoContext(ctx, "transient inference failure, retrying",
			"attempt", attempt+1,
			"status", aerr.Status,
			"delay", delay,
			"error", aerr)

		if err := c.sleep(ctx, delay); err != nil {
			return nil, transportFailure(err)
		}
	}

	c.logger.WarnContext(ctx, "inference retries exhausted",
		"max_attempts", maxAttempts,
		"error", lastErr)
	return nil, lastErr
}

// do performs a single attempt and classifies its outcome.
func (c *Client) do(ctx context.Context, token string, body []byte) (*Response, *Error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, configurationError("invalid endpoint", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportFailure(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)

	switch {
	case httpResp.StatusCode >= 200 && httpResp.StatusCode < 300:
		if err != nil {
			return nil, transportFailure(err)
		}
		text, perr := extractText(respBody)
		if perr != nil {
			return nil, perr
		}
		return &Response{Text: text, FinishReason: FinishCompleted}, nil

	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, rateLimited(httpResp.StatusCode)

	case httpResp.StatusCode == http.StatusServiceUnavailable:
		return nil, serviceUnavailable(httpResp.StatusCode)

	default:
		return nil, upstreamError(httpResp.StatusCode, string(respBody))
	}
}
