package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andrejsstepanovs/projtrack/models"
	fastshot "github.com/opus-domini/fast-shot"
)

const DefaultAPIURL = "https://api.github.com"

// GitHubConfig points at a single file in a repository.
type GitHubConfig struct {
	APIURL string
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// APIError is a non-2xx answer from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api returned %d: %s", e.StatusCode, e.Message)
}

// GitHub reads and writes one JSON document through the contents API.
type GitHub struct {
	cfg   GitHubConfig
	token func() string
	now   func() time.Time
}

// NewGitHub creates a contents API client. token is asked for on every request
// so a credential saved mid-session is picked up.
func NewGitHub(cfg GitHubConfig, token func() string) *GitHub {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &GitHub{cfg: cfg, token: token, now: time.Now}
}

func (g *GitHub) Branch() string {
	return g.cfg.Branch
}

func (g *GitHub) client() fastshot.ClientHttpMethods {
	c := fastshot.NewClient(strings.TrimRight(g.cfg.APIURL, "/"))
	if token := g.token(); token != "" {
		c.Auth().BearerToken(token)
	}

	return c.Config().SetTimeout(30*time.Second).
		Header().Add("Accept", "application/vnd.github.v3+json").
		Build()
}

func (g *GitHub) contentsPath() string {
	return fmt.Sprintf("/repos/%s/%s/contents/%s", g.cfg.Owner, g.cfg.Repo, strings.TrimLeft(g.cfg.Path, "/"))
}

// contents fetches the file metadata, bypassing intermediate caches.
func (g *GitHub) contents(ctx context.Context) (models.ContentsResponse, error) {
	resp, err := g.client().
		GET(g.contentsPath()).
		Context().Set(ctx).
		Header().Add("Cache-Control", "no-cache").
		Query().AddParam("ref", g.cfg.Branch).
		Query().AddParam("t", strconv.FormatInt(g.now().UnixMilli(), 10)).
		Send()
	if err != nil {
		return models.ContentsResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body().Close()

	var res models.ContentsResponse
	err = parseHTTPResponse(*resp, &res)
	if err != nil {
		return models.ContentsResponse{}, err
	}

	return res, nil
}

// FetchDocument returns the decoded bytes of the remote file.
func (g *GitHub) FetchDocument(ctx context.Context) ([]byte, error) {
	res, err := g.contents(ctx)
	if err != nil {
		return nil, err
	}

	if res.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported content encoding %q", res.Encoding)
	}
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(res.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}

	return data, nil
}

// CurrentSHA returns the blob sha identifying the current file content.
func (g *GitHub) CurrentSHA(ctx context.Context) (string, error) {
	res, err := g.contents(ctx)
	if err != nil {
		return "", err
	}
	if res.SHA == "" {
		return "", errors.New("response has no sha")
	}
	return res.SHA, nil
}

// UpdateFile writes the file. GitHub rejects the write when req.SHA is stale.
func (g *GitHub) UpdateFile(ctx context.Context, req models.UpdateRequest) (models.UpdateResponse, error) {
	if req.Branch == "" {
		req.Branch = g.cfg.Branch
	}

	resp, err := g.client().
		PUT(g.contentsPath()).
		Context().Set(ctx).
		Header().Add("Content-Type", "application/json").
		Body().AsJSON(req).
		Send()
	if err != nil {
		return models.UpdateResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body().Close()

	var res models.UpdateResponse
	err = parseHTTPResponse(*resp, &res)
	if err != nil {
		return models.UpdateResponse{}, err
	}

	return res, nil
}

func parseHTTPResponse[T any](resp fastshot.Response, result *T) error {
	if resp.Status().IsError() {
		msg, err := resp.Body().AsString()
		if err != nil {
			return fmt.Errorf("failed to read error response: %w", err)
		}
		return &APIError{StatusCode: resp.Status().Code(), Message: errorMessage(msg)}
	}

	err := resp.Body().AsJSON(result)
	if err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// errorMessage extracts GitHub's "message" field, falling back to the raw body.
func errorMessage(body string) string {
	var apiErr models.APIErrorBody
	if err := json.Unmarshal([]byte(body), &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return strings.TrimSpace(body)
}
