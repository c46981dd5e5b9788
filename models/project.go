package models

import (
	"regexp"
	"time"
)

// AppVersion is the version tag written next to every persisted snapshot.
const AppVersion = "v2.0.0"

// TimestampLayout is the ISO-8601 form used for lastUpdated values.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Status string

const (
	StatusInitial Status = "initial"
	StatusIng     Status = "ing"
	StatusDone    Status = "done"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusInitial, StatusIng, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusInitial, StatusIng, StatusDone:
		return true
	}
	return false
}

// ParseStatus maps an empty string to StatusInitial and reports whether s is a known status.
func ParseStatus(s string) (Status, bool) {
	if s == "" {
		return StatusInitial, true
	}
	st := Status(s)
	return st, st.Valid()
}

// Project is a single catalogued project.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	NameEn      string `json:"nameEn"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Status      Status `json:"status"`
	Repo        string `json:"repo"`
	WebURL      string `json:"web_url"`
	Notes       string `json:"notes"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Snapshot is the export and remote document unit.
type Snapshot struct {
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	Projects    []Project `json:"projects"`
}

type Stats struct {
	Total   int `json:"total"`
	Initial int `json:"initial"`
	Ing     int `json:"ing"`
	Done    int `json:"done"`
}

// CacheEntry holds the raw values of the local cache. An empty Projects means no cache.
type CacheEntry struct {
	Projects    string
	LastUpdated string
	Version     string
}

// FormatTimestamp renders t in TimestampLayout, always in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp returns the zero time for empty or unparsable input.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var githubRepoRe = regexp.MustCompile(`github\.com/([^/]+)/([^/.]+)`)

// PagesURL converts a github.com repository URL to its GitHub Pages address.
func PagesURL(repo string) string {
	if repo == "" {
		return ""
	}
	m := githubRepoRe.FindStringSubmatch(repo)
	if m == nil {
		return ""
	}
	return "https://" + m[1] + ".github.io/" + m[2]
}
