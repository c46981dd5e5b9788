package client

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/andrejsstepanovs/projtrack/client/fakegithub"
	"github.com/andrejsstepanovs/projtrack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *fakegithub.Server, token string) *GitHub {
	return NewGitHub(GitHubConfig{
		APIURL: srv.URL,
		Owner:  "owner",
		Repo:   "repo",
		Branch: "main",
		Path:   "data.json",
	}, func() string { return token })
}

func TestFetchDocument(t *testing.T) {
	doc := []byte(`{"version":"v2.0.0","lastUpdated":"2024-01-01T00:00:00Z","projects":[]}`)
	srv := fakegithub.New(doc)
	defer srv.Close()

	data, err := newTestClient(srv, "").FetchDocument(context.Background())
	require.NoError(t, err)

	assert.Equal(t, doc, data)
	assert.Equal(t, "main", srv.LastRef)
	assert.NotEmpty(t, srv.LastCacheBust)
	assert.True(t, srv.LastNoCache)
	assert.Empty(t, srv.LastAuth)
}

func TestFetchDocument_NotFound(t *testing.T) {
	srv := fakegithub.New(nil)
	defer srv.Close()

	_, err := newTestClient(srv, "").FetchDocument(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestCurrentSHA(t *testing.T) {
	srv := fakegithub.New([]byte("[]"))
	defer srv.Close()

	sha, err := newTestClient(srv, "ghp_token").CurrentSHA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.SHA(), sha)
	assert.Equal(t, "Bearer ghp_token", srv.LastAuth)
}

func TestUpdateFile(t *testing.T) {
	srv := fakegithub.New([]byte("[]"))
	defer srv.Close()
	gh := newTestClient(srv, "ghp_token")
	ctx := context.Background()

	sha, err := gh.CurrentSHA(ctx)
	require.NoError(t, err)

	res, err := gh.UpdateFile(ctx, models.UpdateRequest{
		Message: "update",
		Content: base64.StdEncoding.EncodeToString([]byte(`[{"id":1}]`)),
		SHA:     sha,
	})
	require.NoError(t, err)

	assert.Equal(t, srv.SHA(), res.Content.SHA)
	assert.Equal(t, `[{"id":1}]`, string(srv.Content()))
	assert.Equal(t, "main", srv.LastBranch)
	assert.Equal(t, "update", srv.LastMessage)
}

func TestUpdateFile_StaleSHA(t *testing.T) {
	srv := fakegithub.New([]byte("[]"))
	defer srv.Close()

	_, err := newTestClient(srv, "ghp_token").UpdateFile(context.Background(), models.UpdateRequest{
		Message: "update",
		Content: base64.StdEncoding.EncodeToString([]byte("{}")),
		SHA:     "stale",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "does not match")
	assert.Equal(t, []byte("[]"), srv.Content())
}

func TestErrorMessage(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "github json", body: `{"message":"Bad credentials","documentation_url":"x"}`, expected: "Bad credentials"},
		{name: "plain text", body: " upstream down \n", expected: "upstream down"},
		{name: "json without message", body: `{"error":"x"}`, expected: `{"error":"x"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, errorMessage(tc.body))
		})
	}
}
