package cmd

import (
	"fmt"
	"os"

	"github.com/andrejsstepanovs/projtrack/file"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write all projects to a JSON file (default " + file.DefaultExportName + ")",
		Args:  cobra.MaximumNArgs(1),
		Run:   app.handleExport,
	}
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path|->",
		Short: "Replace all projects with the contents of a JSON file, or stdin with -",
		Args:  cobra.ExactArgs(1),
		Run:   app.handleImport,
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all local projects and restore the built-in list",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if !yes {
				fmt.Println("Reset discards all local projects. Run again with --yes to confirm.")
				os.Exit(1)
			}
			app.handleReset(cmd)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

func (a *App) handleExport(cmd *cobra.Command, args []string) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	a.loadStore(cmd)
	data, err := a.store.Export()
	exitOnError("Error exporting projects", err)

	written, err := file.WriteExport(path, data)
	exitOnError("Error exporting projects", err)
	fmt.Fprintf(a.out, "Exported %d projects to %s\n", len(a.store.All()), written)
}

func (a *App) handleImport(cmd *cobra.Command, args []string) {
	data, err := file.ReadInput(args[0], a.in)
	exitOnError("Error", err)

	a.loadStore(cmd)
	err = a.store.Import(data)
	exitOnError("Error importing projects", err)
	fmt.Fprintf(a.out, "Imported %d projects\n", len(a.store.All()))
}

func (a *App) handleReset(cmd *cobra.Command) {
	a.loadStore(cmd)
	err := a.store.Reset()
	exitOnError("Error resetting projects", err)
	fmt.Fprintf(a.out, "Restored %d built-in projects\n", len(a.store.All()))
}
