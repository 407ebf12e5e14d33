package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/api"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/config"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/services"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/storage"
	"github.com/taskmaster-app/taskmaster-cli/internal/logging"

	_ "modernc.org/sqlite"
)

// searchResult is one delivery from the debounced user searcher.
type searchResult struct {
	query string
	users []models.User
}

type App struct {
	config    *config.Config
	session   services.SessionService
	workspace services.WorkspaceService
	searcher  *services.UserSearcher
	log       logging.Logger
	db        *sql.DB
	reader    *bufio.Reader
	out       io.Writer

	// searchCh holds the most recent search delivery; older undelivered
	// results are dropped.
	searchCh chan searchResult
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	app := &App{
		config:   c,
		log:      log,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		searchCh: make(chan searchResult, 1),
	}

	apiClient := api.NewRESTClient(c.ServerBaseURL, c.RequestTimeout, app.accessToken, log)

	app.session = services.NewSessionService(apiClient, db, log)
	app.workspace = services.NewWorkspaceService(apiClient, log)
	app.searcher = services.NewUserSearcher(apiClient, app.session, c.SearchDebounce, log, app.deliverSearch)

	return app, nil
}

// accessToken supplies the current token to the REST client. It is safe to
// call before the session service is wired because requests only happen
// after NewApp returns.
func (a *App) accessToken() string {
	if a.session == nil {
		return ""
	}
	return a.session.AccessToken()
}

// deliverSearch keeps only the latest result set. It runs on the searcher's
// timer goroutine.
func (a *App) deliverSearch(query string, users []models.User) {
	select {
	case <-a.searchCh:
	default:
	}
	a.searchCh <- searchResult{query: query, users: users}
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

// getStatus renders the prompt annotation: username and page position when
// logged in, empty otherwise.
func (a *App) getStatus() string {
	user := a.session.Current()
	if user == nil {
		return ""
	}
	current, total := a.workspace.DisplayPage()
	return fmt.Sprintf("(%s %d/%d)", user.Username, current, total)
}

// Run restores any stored session and starts the REPL. It blocks until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		a.searcher.Cancel()
		_ = a.db.Close()
	}()

	fmt.Fprintln(a.out, "Welcome to TaskMaster CLI (type 'help' for commands)")

	user, err := a.session.Restore(ctx)
	if err != nil {
		a.log.Error(ctx, "session restore failed", "error", err)
	}
	if user != nil {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", user.Username)
		a.refreshAndList(ctx)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner, a.out)
}

// refreshAndList reloads the workspace and renders the task page. Read
// failures keep whatever was displayed before and are only logged.
func (a *App) refreshAndList(ctx context.Context) {
	if err := a.workspace.Refresh(ctx); err != nil {
		a.log.Error(ctx, "refresh failed", "error", err)
		return
	}
	a.renderTasks()
}
