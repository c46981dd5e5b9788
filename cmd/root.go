package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/andrejsstepanovs/projtrack/client"
	"github.com/andrejsstepanovs/projtrack/config"
	"github.com/andrejsstepanovs/projtrack/db"
	"github.com/andrejsstepanovs/projtrack/store"
	"github.com/andrejsstepanovs/projtrack/sync"
	"github.com/spf13/cobra"
)

// App holds the dependencies shared by all commands.
type App struct {
	cfg       config.Config
	conn      *sql.DB
	cache     *db.Cache
	github    *client.GitHub
	store     *store.Store
	pusher    *sync.Pusher
	logCloser io.Closer
	out       io.Writer
	in        io.Reader
}

func exitOnError(msg string, err error) {
	if err != nil {
		fmt.Printf("%s: %v\n", msg, err)
		os.Exit(1)
	}
}

func (a *App) newGitHub(remote config.RemoteConfig) *client.GitHub {
	return client.NewGitHub(client.GitHubConfig{
		APIURL: remote.APIURL,
		Owner:  remote.Owner,
		Repo:   remote.Repo,
		Branch: remote.Branch,
		Path:   remote.Path,
	}, a.token)
}

// token reads the credential on every call so a token saved by another process is seen.
func (a *App) token() string {
	tok, err := a.cache.Credential()
	if err != nil {
		log.Printf("Error reading credential: %v", err)
		return ""
	}
	return tok
}

// setup loads configuration and opens the cache. It runs before every command.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.cfg = cfg
	a.logCloser = setupLogging(cfg.Log.File)

	conn, err := db.SetupDatabase(cfg.Cache.Path)
	if err != nil {
		return err
	}
	a.conn = conn
	a.cache = db.NewCache(conn)

	// Interface values stay nil when no remote is configured.
	var remote store.RemoteSource
	var pushTarget sync.Remote
	if cfg.Remote.Enabled() {
		a.github = a.newGitHub(cfg.Remote)
		remote = a.github
		pushTarget = a.github
	}

	a.store = store.New(a.cache, remote)
	a.pusher = sync.New(a.store, a.cache, a.cache, pushTarget)
	return nil
}

func (a *App) teardown(_ *cobra.Command, _ []string) {
	if a.conn != nil {
		_ = a.conn.Close()
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

// loadStore reconciles the cache with the remote document before a command reads or writes projects.
func (a *App) loadStore(cmd *cobra.Command) {
	source, err := a.store.Load(cmd.Context())
	exitOnError("Error loading projects", err)
	log.Printf("Loaded %d projects (%s)", len(a.store.All()), source)
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "projtrack",
		Short:             "CLI for tracking a personal project catalogue synced to a GitHub JSON file",
		PersistentPreRunE: app.setup,
		PersistentPostRun: app.teardown,
		SilenceUsage:      true,
	}
	cmd.AddCommand(
		newListCmd(app),
		newShowCmd(app),
		newAddCmd(app),
		newUpdateCmd(app),
		newDeleteCmd(app),
		newStatusCmd(app),
		newCategoriesCmd(app),
		newStatsCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newResetCmd(app),
		newPushCmd(app),
		newTokenCmd(app),
		newServeCmd(app),
	)
	return cmd
}

// Execute initializes and runs the root command. It is the single entry point
// for the command-line interface.
func Execute() {
	app := &App{out: os.Stdout, in: os.Stdin}
	rootCmd := newRootCmd(app)
	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, so we just need to exit.
		os.Exit(1)
	}
}
