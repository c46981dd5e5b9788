package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/andrejsstepanovs/projtrack/models"
	"github.com/andrejsstepanovs/projtrack/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestProjectFlags_Apply(t *testing.T) {
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	existing := models.Project{
		ID:       3,
		Name:     "Old",
		Category: "work",
		Status:   models.StatusIng,
		Notes:    "keep me",
	}

	f := &projectFlags{
		name:     "New",
		category: "ignored",
		status:   "done",
		end:      "tomorrow",
	}

	got := f.apply(existing, changedSet("name", "status", "end"), now)

	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "work", got.Category)
	assert.Equal(t, models.StatusDone, got.Status)
	assert.Equal(t, "keep me", got.Notes)
	assert.Equal(t, "2024-07-02", got.EndDate)
	assert.Empty(t, got.StartDate)
}

func TestProjectFlags_ApplyClearsField(t *testing.T) {
	f := &projectFlags{notes: ""}
	got := f.apply(models.Project{Name: "A", Notes: "old"}, changedSet("notes"), time.Now())
	assert.Empty(t, got.Notes)
	assert.Equal(t, "A", got.Name)
}

func TestRenderList(t *testing.T) {
	var buf bytes.Buffer
	renderList(&buf, []models.Project{
		{ID: 1, Name: "Alpha", NameEn: "alpha", Category: "work", Subcategory: "AI", Status: models.StatusDone},
		{ID: 2, Name: "Beta", Category: "life", Status: models.StatusInitial},
	})

	out := buf.String()
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "(alpha)")
	assert.Contains(t, out, "work / AI")
	assert.Contains(t, out, "Beta")
	assert.Contains(t, out, "done")

	buf.Reset()
	renderList(&buf, nil)
	assert.Contains(t, buf.String(), "No projects found")
}

func TestRenderGroups(t *testing.T) {
	projects := []models.Project{
		{ID: 1, Name: "Alpha", Category: "work", Status: models.StatusDone},
		{ID: 2, Name: "Beta", Category: "work", Subcategory: "AI", Status: models.StatusInitial},
		{ID: 3, Name: "Gamma", Category: "life", Status: models.StatusIng},
	}

	var buf bytes.Buffer
	renderGroups(&buf, search.Group(projects))

	out := buf.String()
	require.Contains(t, out, "work")
	assert.Contains(t, out, "(2)")
	assert.Contains(t, out, "AI")
	assert.Contains(t, out, "50.0%")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Alpha")), bytes.Index(buf.Bytes(), []byte("Gamma")))
}

func TestRenderProject(t *testing.T) {
	var buf bytes.Buffer
	renderProject(&buf, models.Project{
		ID:     7,
		Name:   "Trip",
		Status: models.StatusIng,
		Repo:   "https://github.com/alice/trip",
	})

	out := buf.String()
	assert.Contains(t, out, "Trip")
	assert.Contains(t, out, "https://alice.github.io/trip")
	assert.NotContains(t, out, "Notes")
}
