// Package fakegithub is an in-process stand-in for the GitHub contents API,
// enforcing sha compare-and-swap on writes. It is meant for tests.
package fakegithub

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/andrejsstepanovs/projtrack/models"
)

type Server struct {
	*httptest.Server

	mu      sync.Mutex
	content []byte
	sha     string

	// Token, when set, must be presented as a bearer token on writes.
	Token string
	// GetStatus forces every read to fail with this status code.
	GetStatus int
	// BeforeUpdate runs when a write arrives, before the sha is checked.
	BeforeUpdate func(s *Server)

	Gets          int
	Updates       int
	LastMessage   string
	LastBranch    string
	LastRef       string
	LastAuth      string
	LastNoCache   bool
	LastCacheBust string
}

// New starts a server holding content. A nil content makes reads return 404.
func New(content []byte) *Server {
	s := &Server{}
	if content != nil {
		s.setContent(content)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func blobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Server) setContent(content []byte) {
	s.content = append([]byte(nil), content...)
	s.sha = blobSHA(s.content)
}

// SetContent replaces the file, as a concurrent writer would.
func (s *Server) SetContent(content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setContent(content)
}

func (s *Server) Content() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.content...)
}

func (s *Server) SHA() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sha
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.APIErrorBody{Message: msg})
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/repos/") || !strings.Contains(r.URL.Path, "/contents/") {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGet(w, r)
	case http.MethodPut:
		s.handlePut(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Gets++
	s.LastRef = r.URL.Query().Get("ref")
	s.LastCacheBust = r.URL.Query().Get("t")
	s.LastNoCache = r.Header.Get("Cache-Control") == "no-cache"
	s.LastAuth = r.Header.Get("Authorization")

	if s.GetStatus != 0 {
		writeError(w, s.GetStatus, http.StatusText(s.GetStatus))
		return
	}
	if s.content == nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	name := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	writeJSON(w, http.StatusOK, models.ContentsResponse{
		Name:     name,
		Path:     name,
		SHA:      s.sha,
		Content:  base64.StdEncoding.EncodeToString(s.content),
		Encoding: "base64",
	})
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	if s.BeforeUpdate != nil {
		s.BeforeUpdate(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastAuth = r.Header.Get("Authorization")
	if s.Token != "" && s.LastAuth != "Bearer "+s.Token {
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}
	if req.SHA != s.sha {
		writeError(w, http.StatusConflict, fmt.Sprintf("data.json does not match %s", req.SHA))
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "content is not valid Base64")
		return
	}

	s.setContent(content)
	s.Updates++
	s.LastMessage = req.Message
	s.LastBranch = req.Branch

	var res models.UpdateResponse
	res.Content.SHA = s.sha
	res.Commit.SHA = blobSHA([]byte(req.Message + s.sha))
	writeJSON(w, http.StatusOK, res)
}
