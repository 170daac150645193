// Package llm drafts portfolio records with an OpenAI chat model.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/darkClaw921/main-site-templats/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel = "gpt-4o-mini"

	temperature      = 0.7
	projectMaxTokens = 1500
	tweakMaxTokens   = 800

	serviceName = "openai"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	api    *openai.Client
	model  string
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{model: cfg.Model, logger: logger}
	if c.model == "" {
		c.model = DefaultModel
	}
	if cfg.APIKey == "" {
		return c
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}
	c.api = openai.NewClientWithConfig(apiCfg)
	return c
}

// Configured reports whether an API key was provided.
func (c *Client) Configured() bool {
	return c != nil && c.api != nil
}

func (c *Client) GenerateProjectDraft(ctx context.Context, description string) (*models.ProjectDraft, error) {
	content, err := c.complete(ctx, projectSystemPrompt, fmt.Sprintf(projectPromptTemplate, description), projectMaxTokens)
	if err != nil {
		return nil, err
	}
	draft, err := parseProjectDraft(content)
	if err != nil {
		c.logger.WarnContext(ctx, "unparseable project draft", "error", err)
		return nil, &models.ExternalServiceError{Service: serviceName, Err: err}
	}
	return draft, nil
}

func (c *Client) GenerateTweakDraft(ctx context.Context, description string) (*models.TweakDraft, error) {
	content, err := c.complete(ctx, tweakSystemPrompt, fmt.Sprintf(tweakPromptTemplate, description), tweakMaxTokens)
	if err != nil {
		return nil, err
	}
	draft, err := parseTweakDraft(content)
	if err != nil {
		c.logger.WarnContext(ctx, "unparseable tweak draft", "error", err)
		return nil, &models.ExternalServiceError{Service: serviceName, Err: err}
	}
	return draft, nil
}

func (c *Client) complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", models.ErrNotConfigured
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "chat completion failed", "model", c.model, "error", err)
		return "", &models.ExternalServiceError{Service: serviceName, Err: err}
	}
	c.logger.InfoContext(ctx, "chat completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens,
	)

	if len(resp.Choices) == 0 {
		return "", &models.ExternalServiceError{Service: serviceName, Err: errors.New("empty reply")}
	}
	return resp.Choices[0].Message.Content, nil
}

// stripCodeFence removes an optional ```json ... ``` wrapper.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

type projectReply struct {
	Title     string                     `json:"title"`
	Industry  string                     `json:"industry"`
	Results   json.RawMessage            `json:"results"`
	Timeline  string                     `json:"timeline"`
	Budget    string                     `json:"budget"`
	Benefits  string                     `json:"benefits"`
	TechStack map[string]json.RawMessage `json:"tech_stack"`
}

func parseProjectDraft(content string) (*models.ProjectDraft, error) {
	var reply projectReply
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &reply); err != nil {
		return nil, fmt.Errorf("decode project draft: %w", err)
	}

	draft := &models.ProjectDraft{
		Title:     strings.TrimSpace(reply.Title),
		Industry:  strings.TrimSpace(reply.Industry),
		Results:   textList(reply.Results),
		Timeline:  strings.TrimSpace(reply.Timeline),
		Budget:    strings.TrimSpace(reply.Budget),
		Benefits:  strings.TrimSpace(reply.Benefits),
		TechStack: map[string]string{},
	}
	for k, raw := range reply.TechStack {
		k = strings.TrimSpace(k)
		v := flatText(raw)
		if k == "" || v == "" {
			continue
		}
		draft.TechStack[k] = v
	}
	if draft.Title == "" && len(draft.Results) == 0 {
		return nil, errors.New("project draft has no content")
	}
	return draft, nil
}

type tweakReply struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ProjectName *string `json:"project_name"`
	TimeSpent   *string `json:"time_spent"`
}

func parseTweakDraft(content string) (*models.TweakDraft, error) {
	var reply tweakReply
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &reply); err != nil {
		return nil, fmt.Errorf("decode tweak draft: %w", err)
	}

	draft := &models.TweakDraft{
		Title:       strings.TrimSpace(reply.Title),
		Description: strings.TrimSpace(reply.Description),
		Category:    models.TweakCategoryOrOther(reply.Category),
	}
	if reply.ProjectName != nil {
		draft.ProjectName = strings.TrimSpace(*reply.ProjectName)
	}
	if reply.TimeSpent != nil {
		draft.TimeSpent = strings.TrimSpace(*reply.TimeSpent)
	}
	if draft.Title == "" && draft.Description == "" {
		return nil, errors.New("tweak draft has no content")
	}
	return draft, nil
}

// textList accepts a JSON array of strings or a single newline separated string.
func textList(raw json.RawMessage) []string {
	out := []string{}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		items = []json.RawMessage{raw}
	}
	for _, item := range items {
		for _, line := range strings.Split(flatText(item), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// flatText renders a JSON scalar or array as plain text.
func flatText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if p := flatText(item); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", ")
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}
