package generation

import "strings"

const (
	DefaultMaxTokens   = 512
	DefaultTemperature = 0.7
	DefaultTopP        = 0.95

	MinMaxTokens   = 1
	MaxMaxTokens   = 2048
	MinTemperature = 0.0
	MaxTemperature = 2.0

	// FinishCompleted is the finish reason reported for every successful reply.
	FinishCompleted = "completed"
)

// Request holds the validated parameters of a single generation call.
type Request struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// Response is the normalized result of a successful generation call.
type Response struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason"`
}

// RequestOption overrides one of the request defaults.
type RequestOption func(*Request)

// WithMaxTokens sets the maximum number of new tokens.
func WithMaxTokens(n int) RequestOption {
	return func(r *Request) { r.MaxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) RequestOption {
	return func(r *Request) { r.Temperature = t }
}

// WithTopP sets the nucleus sampling threshold.
func WithTopP(p float64) RequestOption {
	return func(r *Request) { r.TopP = p }
}

// NewRequest builds a Request from the prompt and the defaults, applying opts in order.
func NewRequest(prompt string, opts ...RequestOption) Request {
	r := Request{
		Prompt:      prompt,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Validate checks a request against the parameter contract. It performs no I/O
// and its result depends only on r.
func Validate(r Request) error {
	if strings.TrimSpace(r.Prompt) == "" {
		return invalidInput("prompt cannot be empty")
	}
	if r.MaxTokens < MinMaxTokens || r.MaxTokens > MaxMaxTokens {
		return invalidInput("maxTokens out of range")
	}
	// NaN fails both comparisons, so test for the accepted range instead.
	if !(r.Temperature >= MinTemperature && r.Temperature <= MaxTemperature) {
		return invalidInput("temperature out of range")
	}
	if !(r.TopP > 0 && r.TopP <= 1) {
		return invalidInput("topP out of range")
	}
	return nil
}
