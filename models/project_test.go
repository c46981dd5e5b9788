package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		input    string
		expected Status
		ok       bool
	}{
		{input: "", expected: StatusInitial, ok: true},
		{input: "initial", expected: StatusInitial, ok: true},
		{input: "ing", expected: StatusIng, ok: true},
		{input: "done", expected: StatusDone, ok: true},
		{input: "paused", expected: Status("paused"), ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseStatus(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestTimestamps(t *testing.T) {
	ts := time.Date(2024, 7, 1, 14, 30, 0, 123000000, time.FixedZone("NZST", 12*3600))
	formatted := FormatTimestamp(ts)
	assert.Equal(t, "2024-07-01T02:30:00.123Z", formatted)
	assert.True(t, ParseTimestamp(formatted).Equal(ts))

	assert.True(t, ParseTimestamp("").IsZero())
	assert.True(t, ParseTimestamp("yesterday").IsZero())
	assert.False(t, ParseTimestamp("2024-01-01T00:00:00Z").IsZero())
}

func TestPagesURL(t *testing.T) {
	testCases := []struct {
		repo     string
		expected string
	}{
		{repo: "https://github.com/flyzhenghao/life-journey", expected: "https://flyzhenghao.github.io/life-journey"},
		{repo: "https://github.com/alice/site.git", expected: "https://alice.github.io/site"},
		{repo: "https://gitlab.com/alice/site", expected: ""},
		{repo: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.repo, func(t *testing.T) {
			assert.Equal(t, tc.expected, PagesURL(tc.repo))
		})
	}
}

func TestSeedProjectsIsCopy(t *testing.T) {
	a := SeedProjects()
	assert.Len(t, a, 16)
	a[0].Name = "changed"
	assert.NotEqual(t, "changed", SeedProjects()[0].Name)
}
