package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseRepoURL(t *testing.T) {
	cases := []struct {
		in          string
		owner, repo string
		ok          bool
	}{
		{"https://github.com/acme/site", "acme", "site", true},
		{"http://github.com/acme/site.git", "acme", "site", true},
		{"github.com/acme/site", "acme", "site", true},
		{"https://github.com/acme/site#readme", "acme", "site", true},
		{"https://github.com/acme/site?tab=readme", "acme", "site", true},
		{"https://github.com/acme/site/tree/main", "acme", "site", true},
		{" https://www.github.com/acme/site ", "acme", "site", true},
		{"HTTPS://github.com/acme/site", "acme", "site", true},
		{"Http://GitHub.com/acme/site", "acme", "site", true},
		{"https://gitlab.com/acme/site", "", "", false},
		{"https://github.com/acme", "", "", false},
		{"github.com//site", "", "", false},
		{"not a url", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		owner, repo, ok := ParseRepoURL(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.owner, owner, tc.in)
		assert.Equal(t, tc.repo, repo, tc.in)
	}
}

func TestDescribe(t *testing.T) {
	readme := base64.StdEncoding.EncodeToString([]byte("# Site\nA landing page."))
	// wrapped like the real API
	readme = readme[:10] + "\n" + readme[10:]

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		switch r.URL.Path {
		case "/repos/acme/site":
			json.NewEncoder(w).Encode(map[string]any{
				"name":        "site",
				"description": "Company website",
				"language":    "Go",
				"topics":      []string{"web", "cms"},
				"homepage":    "https://acme.dev",
			})
		case "/repos/acme/site/readme":
			json.NewEncoder(w).Encode(map[string]any{"content": readme, "encoding": "base64"})
		default:
			http.NotFound(w, r)
		}
	})

	text, ok := c.Describe(context.Background(), "https://github.com/acme/site.git")
	require.True(t, ok)
	assert.Equal(t, strings.Join([]string{
		"Description: Company website",
		"Repository name: site",
		"README:\n# Site\nA landing page.",
		"Primary language: Go",
		"Topics: web, cms",
		"Homepage: https://acme.dev",
	}, "\n"), text)
}

func TestDescribe_MissingReadme(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/acme/site" {
			json.NewEncoder(w).Encode(map[string]any{"name": "site"})
			return
		}
		http.NotFound(w, r)
	})

	text, ok := c.Describe(context.Background(), "github.com/acme/site")
	require.True(t, ok)
	assert.Equal(t, "Repository name: site", text)
}

func TestDescribe_Failures(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/repos/acme/empty":
			io.WriteString(w, `{}`)
		case "/repos/acme/broken":
			io.WriteString(w, `{not json`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, ok := c.Describe(context.Background(), "https://example.com/acme/site")
	assert.False(t, ok)
	assert.Zero(t, calls, "bad url must not reach the api")

	_, ok = c.Describe(context.Background(), "https://github.com/acme/missing")
	assert.False(t, ok)

	_, ok = c.Describe(context.Background(), "https://github.com/acme/empty")
	assert.False(t, ok)

	_, ok = c.Describe(context.Background(), "https://github.com/acme/broken")
	assert.False(t, ok)
}

func TestDescribe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, ok := c.Describe(context.Background(), "https://github.com/acme/site")
	assert.False(t, ok)
}

func TestGetReadme_Truncates(t *testing.T) {
	long := strings.Repeat("я", readmeLimit+50)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content":  base64.StdEncoding.EncodeToString([]byte(long)),
			"encoding": "base64",
		})
	})

	readme, err := c.GetReadme(context.Background(), "acme", "site")
	require.NoError(t, err)
	assert.Equal(t, readmeLimit, len([]rune(readme)))
}

func TestClient_SendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		io.WriteString(w, `{"name":"site"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", nil)
	info, err := c.GetRepository(context.Background(), "acme", "site")
	require.NoError(t, err)
	assert.Equal(t, "site", info.Name)
}
