package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const systemPrompt = `You write the opening paragraph of a commercial proposal. ` +
	`Given notes about the client and project, respond with JSON only: ` +
	`{"introduction": string, "structuredContext": {"clientName": string, ` +
	`"projectName": string, "objectives": [string], "tone": string}}.`

// Config holds connection settings for the generation endpoint
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls an OpenAI-compatible chat completions endpoint
type Client struct {
	cfg  Config
	http *resty.Client
}

// NewClient creates a generation client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{cfg: cfg, http: resty.New().SetTimeout(timeout)}
}

// GenerateIntroduction sends the free text and any extracted file texts to
// the model and parses the structured JSON reply
func (c *Client) GenerateIntroduction(ctx context.Context, freeText string, fileTexts []string) (*Result, error) {
	var user strings.Builder
	user.WriteString(freeText)
	for _, t := range fileTexts {
		user.WriteString("\n\n---\n\n")
		user.WriteString(t)
	}

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": user.String()},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	r, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.cfg.APIKey).
		SetBody(body).
		SetResult(&resp).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("introduction generation request failed: %w", err)
	}
	if r.IsError() {
		return nil, fmt.Errorf("introduction generation: %s; body: %s", r.Status(), r.String())
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("introduction generation: empty response")
	}

	content := extractJSON(resp.Choices[0].Message.Content)
	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("introduction generation: malformed reply: %w", err)
	}
	if strings.TrimSpace(result.Introduction) == "" {
		return nil, fmt.Errorf("introduction generation: reply contained no introduction")
	}
	return &result, nil
}

// extractJSON tolerates models that wrap the JSON object in code fences
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}
	return s
}
