// Package forms turns admin form submissions into model inputs.
package forms

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/darkClaw921/main-site-templats/internal/storage"
)

type ProjectForm struct {
	Title           string   `form:"title"`
	Industry        string   `form:"industry"`
	Results         string   `form:"results"`
	Timeline        string   `form:"timeline"`
	Budget          string   `form:"budget"`
	Benefits        string   `form:"benefits"`
	TechStackKeys   []string `form:"tech_stack_keys"`
	TechStackValues []string `form:"tech_stack_values"`
	GithubURL       string   `form:"github_url"`
	ExistingImages  []string `form:"existing_images"`
}

type TweakForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Category    string `form:"category"`
	ProjectName string `form:"project_name"`
	TimeSpent   string `form:"time_spent"`
	GithubURL   string `form:"github_url"`
}

type DescriptionForm struct {
	Description string `form:"description"`
}

type RepositoryForm struct {
	GithubURL string `form:"github_url"`
}

func (f ProjectForm) Input() models.ProjectInput {
	return models.ProjectInput{
		Title:     strings.TrimSpace(f.Title),
		Industry:  strings.TrimSpace(f.Industry),
		Results:   ParseResults(f.Results),
		Timeline:  strings.TrimSpace(f.Timeline),
		Budget:    strings.TrimSpace(f.Budget),
		Benefits:  strings.TrimSpace(f.Benefits),
		TechStack: ParseTechStack(f.TechStackKeys, f.TechStackValues),
		GithubURL: strings.TrimSpace(f.GithubURL),
		Images:    ParseExistingImages(strings.Join(f.ExistingImages, "\n")),
	}
}

func (f TweakForm) Input() models.TweakInput {
	return models.TweakInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Category:    strings.TrimSpace(f.Category),
		ProjectName: f.ProjectName,
		TimeSpent:   f.TimeSpent,
		GithubURL:   f.GithubURL,
	}
}

// ParseResults splits newline separated text into trimmed, non-empty lines.
func ParseResults(raw string) []string {
	results := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			results = append(results, line)
		}
	}
	return results
}

// ParseTechStack pairs keys and values by position. Pairs past the shorter
// slice are dropped, as is any pair with a blank side. Later keys win.
func ParseTechStack(keys, values []string) map[string]string {
	stack := map[string]string{}
	n := min(len(keys), len(values))
	for i := 0; i < n; i++ {
		k := strings.TrimSpace(keys[i])
		v := strings.TrimSpace(values[i])
		if k == "" || v == "" {
			continue
		}
		stack[k] = v
	}
	return stack
}

// ParseExistingImages splits a comma or newline separated list of image paths.
func ParseExistingImages(raw string) []string {
	images := []string{}
	raw = strings.ReplaceAll(raw, "\r\n", ",")
	raw = strings.ReplaceAll(raw, "\n", ",")
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			images = append(images, part)
		}
	}
	return images
}

// ResultsText is the inverse of ParseResults.
func ResultsText(results []string) string {
	return strings.Join(results, "\n")
}

// StoreUploadedImages saves every file that has a name and returns the stored
// paths in order. If one fails, the files saved so far are removed.
func StoreUploadedImages(ctx context.Context, store storage.ImageStore, files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		if fh == nil || strings.TrimSpace(fh.Filename) == "" {
			continue
		}
		p, err := saveOne(ctx, store, fh)
		if err != nil {
			RemoveImages(ctx, store, paths)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// RemoveImages deletes stored images, ignoring failures.
func RemoveImages(ctx context.Context, store storage.ImageStore, paths []string) {
	for _, p := range paths {
		_ = store.Remove(ctx, p)
	}
}

func saveOne(ctx context.Context, store storage.ImageStore, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return store.Save(ctx, fh.Filename, f)
}
