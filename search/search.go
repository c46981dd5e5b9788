package search

import (
	"fmt"
	"math"
	"strings"

	"github.com/andrejsstepanovs/projtrack/models"
)

// All matches any category or status.
const All = "all"

// Filter narrows a project list. Empty fields match everything.
type Filter struct {
	Query    string
	Category string
	Status   string
}

// Config holds the configuration for a search operation.
type Config struct {
	Filter Filter
	Group  bool
}

// ParseConfig builds a Config from free-text arguments and flag values.
func ParseConfig(args []string, category, status string, group bool) (*Config, error) {
	status = strings.TrimSpace(status)
	if status != "" && status != All {
		if _, ok := models.ParseStatus(status); !ok {
			return nil, fmt.Errorf("unknown status %q (expected one of initial, ing, done)", status)
		}
	}

	config := &Config{
		Filter: Filter{
			Query:    strings.TrimSpace(strings.Join(args, " ")),
			Category: strings.TrimSpace(category),
			Status:   status,
		},
		Group: group,
	}

	return config, nil
}

func (f Filter) Match(p models.Project) bool {
	if f.Category != "" && f.Category != All && p.Category != f.Category {
		return false
	}
	if f.Status != "" && f.Status != All && string(p.Status) != f.Status {
		return false
	}
	if f.Query == "" {
		return true
	}

	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.NameEn), q) ||
		strings.Contains(strings.ToLower(p.Subcategory), q)
}

// Apply returns the projects matching f, keeping their order.
func Apply(projects []models.Project, f Filter) []models.Project {
	out := []models.Project{}
	for _, p := range projects {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

type ProgressStats struct {
	Initial    int     `json:"initial"`
	Ing        int     `json:"ing"`
	Done       int     `json:"done"`
	InitialPct float64 `json:"initialPct"`
	IngPct     float64 `json:"ingPct"`
	DonePct    float64 `json:"donePct"`
}

func pct(n, total int) float64 {
	return math.Round(float64(n)/float64(total)*1000) / 10
}

// Progress counts statuses and their share, rounded to one decimal.
func Progress(projects []models.Project) ProgressStats {
	var stats ProgressStats
	for _, p := range projects {
		switch p.Status {
		case models.StatusInitial:
			stats.Initial++
		case models.StatusIng:
			stats.Ing++
		case models.StatusDone:
			stats.Done++
		}
	}

	total := len(projects)
	if total == 0 {
		return stats
	}
	stats.InitialPct = pct(stats.Initial, total)
	stats.IngPct = pct(stats.Ing, total)
	stats.DonePct = pct(stats.Done, total)
	return stats
}

type SubGroup struct {
	Name     string           `json:"name"`
	Projects []models.Project `json:"projects"`
	Progress ProgressStats    `json:"progress"`
}

// CategoryGroup holds one category: projects without a subcategory first, then each subcategory.
type CategoryGroup struct {
	Category      string           `json:"category"`
	Projects      []models.Project `json:"projects"`
	Subcategories []SubGroup       `json:"subcategories"`
	Progress      ProgressStats    `json:"progress"`
	Total         int              `json:"total"`
}

// Group buckets projects by category and subcategory in first-seen order.
func Group(projects []models.Project) []CategoryGroup {
	groups := []CategoryGroup{}
	catIndex := make(map[string]int)
	subIndex := make(map[string]map[string]int)
	members := make(map[string][]models.Project)

	for _, p := range projects {
		ci, ok := catIndex[p.Category]
		if !ok {
			ci = len(groups)
			catIndex[p.Category] = ci
			subIndex[p.Category] = make(map[string]int)
			groups = append(groups, CategoryGroup{Category: p.Category, Projects: []models.Project{}, Subcategories: []SubGroup{}})
		}
		g := &groups[ci]
		members[p.Category] = append(members[p.Category], p)

		if p.Subcategory == "" {
			g.Projects = append(g.Projects, p)
			continue
		}
		si, ok := subIndex[p.Category][p.Subcategory]
		if !ok {
			si = len(g.Subcategories)
			subIndex[p.Category][p.Subcategory] = si
			g.Subcategories = append(g.Subcategories, SubGroup{Name: p.Subcategory})
		}
		g.Subcategories[si].Projects = append(g.Subcategories[si].Projects, p)
	}

	for i := range groups {
		g := &groups[i]
		all := members[g.Category]
		g.Total = len(all)
		g.Progress = Progress(all)
		for j := range g.Subcategories {
			g.Subcategories[j].Progress = Progress(g.Subcategories[j].Projects)
		}
	}

	return groups
}

// Lister is the read side of the project store.
type Lister interface {
	All() []models.Project
}

// Run executes a search against the store.
func Run(store Lister, config *Config) []models.Project {
	return Apply(store.All(), config.Filter)
}
