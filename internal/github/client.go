// Package github reads public repository metadata from the GitHub REST API.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultBaseURL = "https://api.github.com"

	readmeLimit = 3000
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type Repository struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Homepage    string   `json:"homepage"`
}

type readmeResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// ParseRepoURL extracts owner and repository from URLs such as
// "https://github.com/owner/repo", "github.com/owner/repo.git" or
// "github.com/owner/repo/tree/main".
func ParseRepoURL(raw string) (owner, repo string, ok bool) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	for _, scheme := range []string{"https://", "http://"} {
		if len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
			s = s[len(scheme):]
			break
		}
	}

	parts := strings.Split(s, "/")
	if len(parts) < 3 {
		return "", "", false
	}
	host := strings.ToLower(parts[0])
	if host != "github.com" && host != "www.github.com" {
		return "", "", false
	}
	owner = parts[1]
	repo = strings.TrimSuffix(parts[2], ".git")
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

// Describe builds a plain text summary of the repository for content generation.
// It returns false when the URL is not a repository or nothing could be fetched.
func (c *Client) Describe(ctx context.Context, repoURL string) (string, bool) {
	owner, repo, ok := ParseRepoURL(repoURL)
	if !ok {
		c.logger.DebugContext(ctx, "not a github repository url", "url", repoURL)
		return "", false
	}

	info, err := c.GetRepository(ctx, owner, repo)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to fetch repository", "owner", owner, "repo", repo, "error", err)
		return "", false
	}

	readme, err := c.GetReadme(ctx, owner, repo)
	if err != nil {
		c.logger.DebugContext(ctx, "readme not available", "owner", owner, "repo", repo, "error", err)
	}

	text := summarize(info, readme)
	if text == "" {
		return "", false
	}
	return text, true
}

func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var info Repository
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetReadme returns the decoded README, cut to the first 3000 characters.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	var resp readmeResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/readme", owner, repo), &resp); err != nil {
		return "", err
	}
	if resp.Content == "" {
		return "", nil
	}
	if resp.Encoding != "" && resp.Encoding != "base64" {
		return "", fmt.Errorf("unsupported readme encoding %q", resp.Encoding)
	}

	// GitHub wraps base64 content at 60 columns
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode readme: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("readme is not valid utf-8")
	}
	return truncate(string(data), readmeLimit), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func summarize(info *Repository, readme string) string {
	var parts []string
	if info.Description != "" {
		parts = append(parts, "Description: "+info.Description)
	}
	if info.Name != "" {
		parts = append(parts, "Repository name: "+info.Name)
	}
	if readme != "" {
		parts = append(parts, "README:\n"+readme)
	}
	if info.Language != "" {
		parts = append(parts, "Primary language: "+info.Language)
	}
	if len(info.Topics) > 0 {
		parts = append(parts, "Topics: "+strings.Join(info.Topics, ", "))
	}
	if info.Homepage != "" {
		parts = append(parts, "Homepage: "+info.Homepage)
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
