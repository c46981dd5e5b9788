package cmd

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const dateLayout = "2006-01-02"

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// normalizeDate turns inputs like "next friday" into YYYY-MM-DD relative to base.
// Input it cannot read is returned unchanged.
func normalizeDate(w *when.Parser, input string, base time.Time) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if _, err := time.Parse(dateLayout, input); err == nil {
		return input
	}

	r, err := w.Parse(input, base)
	if err != nil || r == nil {
		return input
	}
	return r.Time.Format(dateLayout)
}
