package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/andrejsstepanovs/projtrack/config"
	"github.com/andrejsstepanovs/projtrack/server"
	"github.com/andrejsstepanovs/projtrack/sync"
	"github.com/spf13/cobra"
)

func newPushCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push [owner/repo[@branch]] [path]",
		Short: "Publish all projects to the GitHub JSON file. Arguments override the configured remote",
		Args:  cobra.MaximumNArgs(2),
		Run:   app.handlePush,
	}
}

func newTokenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the GitHub token used for pushing",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <token>",
			Short: "Store a GitHub token",
			Args:  cobra.ExactArgs(1),
			Run:   app.handleTokenSet,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether a GitHub token is stored",
			Args:  cobra.NoArgs,
			Run:   app.handleTokenStatus,
		},
	)
	return cmd
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the project API over HTTP",
		Args:  cobra.NoArgs,
		Run:   app.handleServe,
	}
}

func (a *App) handlePush(cmd *cobra.Command, args []string) {
	defaults := sync.Config{
		Owner:  a.cfg.Remote.Owner,
		Repo:   a.cfg.Remote.Repo,
		Branch: a.cfg.Remote.Branch,
		Path:   a.cfg.Remote.Path,
	}
	target, err := sync.ParseConfig(args, defaults)
	exitOnError("Error", err)

	a.loadStore(cmd)

	gh := a.newGitHub(config.RemoteConfig{
		APIURL: a.cfg.Remote.APIURL,
		Owner:  target.Owner,
		Repo:   target.Repo,
		Branch: target.Branch,
		Path:   target.Path,
	})
	pusher := sync.New(a.store, a.cache, a.cache, gh)

	fmt.Fprintf(a.out, "Pushing %d projects to %s/%s@%s:%s\n", len(a.store.All()), target.Owner, target.Repo, target.Branch, target.Path)
	res := pusher.PushSnapshot(cmd.Context())
	switch res.Status {
	case sync.StatusOK:
		fmt.Fprintf(a.out, "Pushed at %s (sha %s)\n", res.LastUpdated, res.SHA)
	case sync.StatusCredentialMissing:
		fmt.Println("No GitHub token stored. Run: projtrack token set <token>")
		os.Exit(1)
	case sync.StatusConflict:
		fmt.Printf("Remote rejected the update: %s\nThe file may have changed since it was read. Run push again to retry.\n", res.Message)
		os.Exit(1)
	default:
		fmt.Printf("Push failed (%s): %s\n", res.Status, res.Message)
		os.Exit(1)
	}
}

func (a *App) handleTokenSet(_ *cobra.Command, args []string) {
	err := a.pusher.SaveCredential(args[0])
	exitOnError("Error saving token", err)
	fmt.Fprintln(a.out, "Token saved")
}

func (a *App) handleTokenStatus(_ *cobra.Command, _ []string) {
	if a.pusher.HasCredential() {
		fmt.Fprintln(a.out, "Token configured")
		return
	}
	fmt.Fprintln(a.out, "No token configured")
}

func (a *App) handleServe(cmd *cobra.Command, _ []string) {
	a.loadStore(cmd)

	router := server.NewRouter(server.NewHandler(a.store, a.pusher))
	addr := a.cfg.Server.Addr()
	log.Printf("Serving %d projects on http://%s/api", len(a.store.All()), addr)
	if err := router.Run(addr); err != nil {
		fmt.Printf("Error running server: %v\n", err)
		os.Exit(1)
	}
}
