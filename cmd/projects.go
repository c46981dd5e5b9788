package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/andrejsstepanovs/projtrack/models"
	"github.com/andrejsstepanovs/projtrack/search"
	"github.com/spf13/cobra"
)

// projectFlags backs the add and update forms.
type projectFlags struct {
	name        string
	nameEn      string
	category    string
	subcategory string
	status      string
	repo        string
	webURL      string
	notes       string
	start       string
	end         string
}

func addProjectFlags(cmd *cobra.Command, f *projectFlags) {
	cmd.Flags().StringVar(&f.name, "name", "", "Project name (required)")
	cmd.Flags().StringVar(&f.nameEn, "name-en", "", "English name")
	cmd.Flags().StringVar(&f.category, "category", "", "Category")
	cmd.Flags().StringVar(&f.subcategory, "subcategory", "", "Subcategory")
	cmd.Flags().StringVar(&f.status, "status", "", "Status: initial, ing or done")
	cmd.Flags().StringVar(&f.repo, "repo", "", "GitHub repository URL")
	cmd.Flags().StringVar(&f.webURL, "web-url", "", "Website URL")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date, e.g. 2025-01-31 or \"next monday\"")
	cmd.Flags().StringVar(&f.end, "end", "", "End date, e.g. 2025-12-05 or \"in 2 weeks\"")
}

// apply copies the flags that changed onto p. Dates are normalized relative to now.
func (f *projectFlags) apply(p models.Project, changed func(name string) bool, now time.Time) models.Project {
	dates := newDateParser()
	fields := []struct {
		flag   string
		target *string
		value  string
	}{
		{"name", &p.Name, f.name},
		{"name-en", &p.NameEn, f.nameEn},
		{"category", &p.Category, f.category},
		{"subcategory", &p.Subcategory, f.subcategory},
		{"repo", &p.Repo, f.repo},
		{"web-url", &p.WebURL, f.webURL},
		{"notes", &p.Notes, f.notes},
		{"start", &p.StartDate, normalizeDate(dates, f.start, now)},
		{"end", &p.EndDate, normalizeDate(dates, f.end, now)},
	}
	for _, field := range fields {
		if changed(field.flag) {
			*field.target = field.value
		}
	}
	if changed("status") {
		p.Status = models.Status(f.status)
	}
	return p
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	exitOnError("Error", err)
	return id
}

func newListCmd(app *App) *cobra.Command {
	var category, status string
	var group bool

	cmd := &cobra.Command{
		Use:   "list [search-query]",
		Short: "List projects. Optional query matches name, English name and subcategory",
		Run: func(cmd *cobra.Command, args []string) {
			app.handleList(cmd, args, category, status, group)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only show this category (\"all\" for every category)")
	cmd.Flags().StringVar(&status, "status", "", "Only show this status (\"all\" for every status)")
	cmd.Flags().BoolVar(&group, "group", false, "Group by category and subcategory with progress")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single project",
		Args:  cobra.ExactArgs(1),
		Run:   app.handleShow,
	}
}

func newAddCmd(app *App) *cobra.Command {
	f := &projectFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		Run: func(cmd *cobra.Command, args []string) {
			app.handleAdd(cmd, f)
		},
	}
	addProjectFlags(cmd, f)
	return cmd
}

func newUpdateCmd(app *App) *cobra.Command {
	f := &projectFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project. Only the given flags change",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.handleUpdate(cmd, parseID(args[0]), f)
		},
	}
	addProjectFlags(cmd, f)
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		Run:   app.handleDelete,
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <initial|ing|done>",
		Short: "Change the status of a project",
		Args:  cobra.ExactArgs(2),
		Run:   app.handleStatus,
	}
}

func newCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories in first-seen order",
		Args:  cobra.NoArgs,
		Run:   app.handleCategories,
	}
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show project counts per status",
		Args:  cobra.NoArgs,
		Run:   app.handleStats,
	}
}

func (a *App) handleList(cmd *cobra.Command, args []string, category, status string, group bool) {
	config, err := search.ParseConfig(args, category, status, group)
	exitOnError("Error", err)

	a.loadStore(cmd)
	results := search.Run(a.store, config)
	if config.Group {
		renderGroups(a.out, search.Group(results))
		return
	}
	renderList(a.out, results)
}

func (a *App) handleShow(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	a.loadStore(cmd)

	p, ok := a.store.Get(id)
	if !ok {
		fmt.Printf("Project %d not found\n", id)
		os.Exit(1)
	}
	renderProject(a.out, p)
}

func (a *App) handleAdd(cmd *cobra.Command, f *projectFlags) {
	a.loadStore(cmd)

	p := f.apply(models.Project{}, cmd.Flags().Changed, time.Now())
	created, err := a.store.Add(p)
	exitOnError("Error adding project", err)

	fmt.Fprintf(a.out, "Added project %d\n", created.ID)
	renderProject(a.out, created)
}

func (a *App) handleUpdate(cmd *cobra.Command, id int64, f *projectFlags) {
	a.loadStore(cmd)

	existing, ok := a.store.Get(id)
	if !ok {
		fmt.Printf("Project %d not found\n", id)
		os.Exit(1)
	}

	updated, _, err := a.store.Update(id, f.apply(existing, cmd.Flags().Changed, time.Now()))
	exitOnError("Error updating project", err)

	fmt.Fprintf(a.out, "Updated project %d\n", id)
	renderProject(a.out, updated)
}

func (a *App) handleDelete(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	a.loadStore(cmd)

	removed, err := a.store.Delete(id)
	exitOnError("Error deleting project", err)
	if !removed {
		fmt.Printf("Project %d not found\n", id)
		os.Exit(1)
	}
	fmt.Fprintf(a.out, "Deleted project %d\n", id)
}

func (a *App) handleStatus(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	a.loadStore(cmd)

	p, found, err := a.store.ChangeStatus(id, models.Status(args[1]))
	exitOnError("Error changing status", err)
	if !found {
		fmt.Printf("Project %d not found\n", id)
		os.Exit(1)
	}
	fmt.Fprintln(a.out, projectLine(p))
}

func (a *App) handleCategories(cmd *cobra.Command, _ []string) {
	a.loadStore(cmd)
	for _, c := range a.store.Categories() {
		fmt.Fprintln(a.out, c)
	}
}

func (a *App) handleStats(cmd *cobra.Command, _ []string) {
	a.loadStore(cmd)
	renderStats(a.out, a.store.Stats())
}
