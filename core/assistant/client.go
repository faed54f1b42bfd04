package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/academia-hq/academia/core"
)

// ErrMalformedResponse is the cause of any completion response whose shape
// does not carry a generated message.
var ErrMalformedResponse = errors.New("malformed completion response")

// UpstreamError is a non-2xx reply from the model endpoint.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// Completer is any service that can turn a prompt block sequence into a reply.
type Completer interface {
	Complete(ctx context.Context, blocks []Block) (string, error)
}

type (
	completionRequest struct {
		Model       string  `json:"model"`
		Messages    []Block `json:"messages"`
		Temperature float64 `json:"temperature"`
	}

	completionResponse struct {
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
)

// Client forwards composed prompts to an OpenAI-compatible chat completions
// endpoint (a locally served model).
type Client struct {
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

var _ Completer = (*Client)(nil)

func NewClient(conf core.AssistantConfig) *Client {
	return &Client{
		baseURL:     conf.BaseURL,
		model:       conf.Model,
		temperature: conf.Temperature,
		client:      &http.Client{Timeout: conf.Timeout},
	}
}

func (c *Client) Complete(ctx context.Context, blocks []Block) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    blocks,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshalling completion request")
	}

	url := fmt.Sprintf("%s/v1/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "creating completion request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling model endpoint")
	}
	defer func() { _ = res.Body.Close() }()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading completion response")
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &UpstreamError{StatusCode: res.StatusCode, Body: string(resBody)}
	}

	var parsed completionResponse
	if err := json.Unmarshal(resBody, &parsed); err != nil {
		return "", errors.Wrapf(ErrMalformedResponse, "parsing completion response: %v", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.Wrap(ErrMalformedResponse, "no completion choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
