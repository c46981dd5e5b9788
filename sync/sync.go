package sync

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/andrejsstepanovs/projtrack/client"
	"github.com/andrejsstepanovs/projtrack/models"
)

var (
	ErrCredentialMissing  = errors.New("github token is required")
	ErrFetchCurrentFailed = errors.New("failed to get current file")
	ErrWriteConflict      = errors.New("remote rejected the update")
	ErrNetwork            = errors.New("network error while writing")
	errNoRemote           = errors.New("remote repository is not configured")
)

type Status string

const (
	StatusOK                Status = "ok"
	StatusCredentialMissing Status = "credential_missing"
	StatusFetchFailed       Status = "fetch_failed"
	StatusConflict          Status = "conflict"
	StatusNetworkError      Status = "network_error"
)

// Result is the outcome of a push. Callers switch on Status; Err wraps one of
// the package errors for every status except StatusOK.
type Result struct {
	Status      Status
	LastUpdated string
	SHA         string
	Message     string
	Err         error
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

type SnapshotSource interface {
	Snapshot() models.Snapshot
}

// TimestampWriter records a successful push. It must never move the cached timestamp backwards.
type TimestampWriter interface {
	AdvanceLastUpdated(ts string) (bool, error)
}

type CredentialStore interface {
	Credential() (string, error)
	SaveCredential(token string) error
}

type Remote interface {
	Branch() string
	CurrentSHA(ctx context.Context) (string, error)
	UpdateFile(ctx context.Context, req models.UpdateRequest) (models.UpdateResponse, error)
}

// Pusher publishes the store snapshot to the remote document. It holds no lock:
// overlapping pushes race on the sha and the later writer gets StatusConflict.
type Pusher struct {
	source SnapshotSource
	cache  TimestampWriter
	creds  CredentialStore
	remote Remote
}

func New(source SnapshotSource, cache TimestampWriter, creds CredentialStore, remote Remote) *Pusher {
	return &Pusher{source: source, cache: cache, creds: creds, remote: remote}
}

// Token returns the stored credential or an empty string.
func (p *Pusher) Token() string {
	token, err := p.creds.Credential()
	if err != nil {
		log.Printf("Error reading credential: %v", err)
		return ""
	}
	return token
}

func (p *Pusher) HasCredential() bool {
	return p.Token() != ""
}

func (p *Pusher) SaveCredential(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrCredentialMissing
	}
	if err := p.creds.SaveCredential(token); err != nil {
		return fmt.Errorf("error saving credential: %w", err)
	}
	return nil
}

func encodeSnapshot(snap models.Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// PushSnapshot reads the current remote sha and writes the snapshot conditioned
// on it. It never retries; run it again to retry with a fresh sha.
func (p *Pusher) PushSnapshot(ctx context.Context) Result {
	if !p.HasCredential() {
		return Result{Status: StatusCredentialMissing, Message: ErrCredentialMissing.Error(), Err: ErrCredentialMissing}
	}

	if p.remote == nil {
		return Result{
			Status:  StatusFetchFailed,
			Message: errNoRemote.Error(),
			Err:     fmt.Errorf("%w: %w", ErrFetchCurrentFailed, errNoRemote),
		}
	}

	snap := p.source.Snapshot()
	content, err := encodeSnapshot(snap)
	if err != nil {
		return Result{Status: StatusNetworkError, Message: err.Error(), Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}

	sha, err := p.remote.CurrentSHA(ctx)
	if err != nil {
		log.Printf("Error fetching current remote sha: %v", err)
		return Result{
			Status:  StatusFetchFailed,
			Message: err.Error(),
			Err:     fmt.Errorf("%w: %w", ErrFetchCurrentFailed, err),
		}
	}

	res, err := p.remote.UpdateFile(ctx, models.UpdateRequest{
		Message: "Update project data - " + snap.LastUpdated,
		Content: content,
		SHA:     sha,
		Branch:  p.remote.Branch(),
	})
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			log.Printf("Remote rejected update: %v", apiErr)
			return Result{
				Status:  StatusConflict,
				SHA:     sha,
				Message: apiErr.Message,
				Err:     fmt.Errorf("%w: %w", ErrWriteConflict, err),
			}
		}
		log.Printf("Error sending update: %v", err)
		return Result{
			Status:  StatusNetworkError,
			SHA:     sha,
			Message: err.Error(),
			Err:     fmt.Errorf("%w: %w", ErrNetwork, err),
		}
	}

	// Match the cache timestamp to the pushed one so the next load does not see local as newer.
	// Edits saved while the push was in flight carry a newer timestamp and keep it.
	advanced, err := p.cache.AdvanceLastUpdated(snap.LastUpdated)
	if err != nil {
		log.Printf("Pushed, but failed to update local timestamp: %v", err)
	} else if !advanced {
		log.Printf("Local changes saved during the push are newer than %s, keeping them", snap.LastUpdated)
	}

	log.Printf("Pushed %d projects, new sha %s", len(snap.Projects), res.Content.SHA)
	return Result{Status: StatusOK, LastUpdated: snap.LastUpdated, SHA: res.Content.SHA}
}

// Config holds the remote coordinates a push targets.
type Config struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// ParseConfig applies "owner/repo[@branch]" and an optional file path from args on top of defaults.
func ParseConfig(args []string, defaults Config) (*Config, error) {
	config := defaults

	if len(args) >= 1 && args[0] != "" {
		target := args[0]
		if at := strings.LastIndex(target, "@"); at >= 0 {
			config.Branch = target[at+1:]
			target = target[:at]
		}
		owner, repo, ok := strings.Cut(target, "/")
		if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
			return nil, fmt.Errorf("invalid repository %q, expected owner/repo[@branch]", args[0])
		}
		config.Owner = owner
		config.Repo = repo
	}

	if len(args) >= 2 && args[1] != "" {
		config.Path = args[1]
	}

	if config.Owner == "" || config.Repo == "" {
		return nil, fmt.Errorf("remote repository is not configured")
	}
	if config.Branch == "" {
		config.Branch = "main"
	}
	if config.Path == "" {
		config.Path = "data.json"
	}

	return &config, nil
}
