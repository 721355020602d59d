package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Oracle is the single-method boundary to the external classification model.
// The pipeline constructs one explicitly and injects it, so tests substitute
// a deterministic fake.
type Oracle interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// ChatOracle calls an OpenAI-compatible chat completions endpoint with
// deterministic settings: temperature 0 and a short output budget, since the
// expected answer is a single label code.
type ChatOracle struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

func NewChatOracle(apiKey, model string) *ChatOracle {
	return &ChatOracle{
		apiURL: defaultAPIURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithEndpoint points the oracle at a gateway other than the default API.
func (o *ChatOracle) WithEndpoint(url string) *ChatOracle {
	o.apiURL = url
	return o
}

func (o *ChatOracle) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := map[string]interface{}{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": 0.0,
		"max_tokens":  8,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, bytes.NewReader(data))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("oracle server error %d: %s", resp.StatusCode, body)
	case resp.StatusCode >= 400:
		// Client errors will not heal on retry.
		return "", backoff.Permanent(fmt.Errorf("oracle request rejected %d: %s", resp.StatusCode, body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w body=%s", err, body)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty choices in oracle response: %s", body)
	}
	return parsed.Choices[0].Message.Content, nil
}
