// Package aiclient calls an OpenAI-compatible chat completion API to analyze
// ingredients the local knowledge base does not cover.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/scoring"
)

// Analyzer produces risk flags for a product the rule table could not fully
// cover. Implementations must be safe for concurrent use.
type Analyzer interface {
	Analyze(ctx context.Context, p features.Product, profiles []string) ([]scoring.RiskFlag, error)
}

// Noop is an Analyzer that never flags anything. Used when no API key is
// configured.
type Noop struct{}

func (Noop) Analyze(ctx context.Context, p features.Product, profiles []string) ([]scoring.RiskFlag, error) {
	return nil, nil
}

// Config holds connection settings for the chat completion API.
type Config struct {
	BaseURL string // e.g. https://api.openai.com/v1
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is an Analyzer backed by an OpenAI-compatible chat endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a chat-backed Analyzer.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("base URL and API key are required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

const systemPrompt = `You are a food safety analyst. Given a product's ingredient list and the health profiles of the people who will eat it, identify risky ingredients. Respond with a JSON array only, no prose. Each element: {"ingredient": string, "risk_level": "low"|"medium"|"high", "category": string, "description": string, "affected_profiles": [string]}. Return [] if nothing is concerning.`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze asks the model to flag risky ingredients and maps the response
// into risk flags with the ai_analyzed source.
func (c *Client) Analyze(ctx context.Context, p features.Product, profiles []string) ([]scoring.RiskFlag, error) {
	userPrompt := fmt.Sprintf("Product: %s\nIngredients: %s\nProfiles: %s",
		p.Name, strings.Join(p.Ingredients, ", "), strings.Join(profiles, ", "))

	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chat API error %d: %s", resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("chat response has no choices")
	}

	return parseFlags(chat.Choices[0].Message.Content)
}

type modelFlag struct {
	Ingredient       string   `json:"ingredient"`
	RiskLevel        string   `json:"risk_level"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	AffectedProfiles []string `json:"affected_profiles"`
}

var validLevels = map[string]scoring.RiskLevel{
	"low":    scoring.RiskLow,
	"medium": scoring.RiskMedium,
	"high":   scoring.RiskHigh,
}

// parseFlags decodes the model's JSON array, tolerating markdown code fences
// around the payload. Flags with unknown risk levels are dropped rather than
// failing the whole response.
func parseFlags(content string) ([]scoring.RiskFlag, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw []modelFlag
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode model flags: %w", err)
	}

	var flags []scoring.RiskFlag
	for _, f := range raw {
		level, ok := validLevels[strings.ToLower(f.RiskLevel)]
		if !ok || f.Ingredient == "" {
			continue
		}
		flags = append(flags, scoring.RiskFlag{
			Ingredient:       f.Ingredient,
			CanonicalName:    strings.ToLower(f.Ingredient),
			RiskLevel:        level,
			Category:         f.Category,
			Description:      f.Description,
			AffectedProfiles: f.AffectedProfiles,
			Source:           scoring.SourceAIAnalyzed,
		})
	}
	return flags, nil
}
