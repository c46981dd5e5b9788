package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/andrejsstepanovs/projtrack/models"
	"github.com/andrejsstepanovs/projtrack/search"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("13"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(12)

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusInitial: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		models.StatusIng:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		models.StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
	statusIcons = map[models.Status]string{
		models.StatusInitial: "○",
		models.StatusIng:     "◐",
		models.StatusDone:    "●",
	}
)

func statusBadge(s models.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(statusIcons[s] + " " + string(s))
}

func projectLine(p models.Project) string {
	line := fmt.Sprintf("%6d  %s  %s", p.ID, statusBadge(p.Status), p.Name)
	if p.NameEn != "" {
		line += " " + mutedStyle.Render("("+p.NameEn+")")
	}
	return line
}

func renderList(w io.Writer, projects []models.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No projects found"))
		return
	}
	for _, p := range projects {
		category := p.Category
		if p.Subcategory != "" {
			category += " / " + p.Subcategory
		}
		fmt.Fprintf(w, "%s  %s\n", projectLine(p), mutedStyle.Render("["+category+"]"))
	}
}

func progressLine(p search.ProgressStats) string {
	return fmt.Sprintf("%s %.1f%%  %s %.1f%%  %s %.1f%%",
		statusBadge(models.StatusDone), p.DonePct,
		statusBadge(models.StatusIng), p.IngPct,
		statusBadge(models.StatusInitial), p.InitialPct)
}

func renderGroups(w io.Writer, groups []search.CategoryGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No projects found"))
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)  %s\n", headerStyle.Render(g.Category), g.Total, progressLine(g.Progress))
		for _, p := range g.Projects {
			fmt.Fprintln(w, projectLine(p))
		}
		for _, sub := range g.Subcategories {
			fmt.Fprintf(w, "  %s (%d)\n", subStyle.Render(sub.Name), len(sub.Projects))
			for _, p := range sub.Projects {
				fmt.Fprintln(w, "  "+projectLine(p))
			}
		}
	}
}

func renderProject(w io.Writer, p models.Project) {
	rows := [][2]string{
		{"ID", fmt.Sprint(p.ID)},
		{"Name", p.Name},
		{"Name (en)", p.NameEn},
		{"Category", p.Category},
		{"Subcategory", p.Subcategory},
		{"Status", statusBadge(p.Status)},
		{"Repo", p.Repo},
		{"Pages", models.PagesURL(p.Repo)},
		{"Web", p.WebURL},
		{"Start", p.StartDate},
		{"End", p.EndDate},
		{"Notes", p.Notes},
	}
	for _, row := range rows {
		if strings.TrimSpace(row[1]) == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(row[0]), row[1])
	}
}

func renderStats(w io.Writer, stats models.Stats) {
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Total"), stats.Total)
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render(statusBadge(models.StatusInitial)), stats.Initial)
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render(statusBadge(models.StatusIng)), stats.Ing)
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render(statusBadge(models.StatusDone)), stats.Done)
}
