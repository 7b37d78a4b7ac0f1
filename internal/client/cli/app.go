package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/filedesk/internal/client/client"
	"github.com/dmitrijs2005/filedesk/internal/client/config"
	"github.com/dmitrijs2005/filedesk/internal/client/identity"
	"github.com/dmitrijs2005/filedesk/internal/client/objectstore"
	"github.com/dmitrijs2005/filedesk/internal/client/router"
	"github.com/dmitrijs2005/filedesk/internal/client/services"
	"github.com/dmitrijs2005/filedesk/internal/client/session"
	"github.com/dmitrijs2005/filedesk/internal/client/storage"
	"github.com/dmitrijs2005/filedesk/internal/client/views"
	"github.com/dmitrijs2005/filedesk/internal/logging"
)

// view is a mountable view model.
type view interface {
	Mount(ctx context.Context) error
	Unmount()
}

type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Controller
	nav     *router.Navigator
	files   *views.FileManager
	profile *views.Profile
	dash    *views.Dashboard
	active  view
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// NewApp builds the client from configuration: the SQLite session store,
// the backend and identity clients, and the file service selected by the
// storage mode.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	a := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	db, err := storage.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.SessionDBPath, "err", err)
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	creds, err := storage.NewCredentialStore(ctx, db, c.CredentialPassphrase)
	if err != nil {
		a.Close()
		return nil, err
	}

	api, err := client.NewHTTPClient(client.Options{
		BaseURL:     c.BackendURL,
		TokenPrefix: c.TokenPrefix,
		Timeout:     c.RequestTimeout,
		Credentials: creds,
		IsAuthView:  a.isAuthView,
		Logger:      log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	// plain client for identity calls and file transfers; never carries the
	// backend credential
	plain := &http.Client{Timeout: c.RequestTimeout}

	bridge, err := identity.NewFirebaseBridge(identity.Config{
		APIKey:        c.Identity.APIKey,
		Endpoint:      c.Identity.Endpoint,
		TokenEndpoint: c.Identity.TokenEndpoint,
		ProjectID:     c.Identity.ProjectID,
		VerifyTokens:  c.Identity.VerifyTokens,
		HTTPClient:    plain,
		Logger:        log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	fileSvc, err := newFileService(ctx, c, api, plain, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.wire(api, bridge, creds, fileSvc)
	return a, nil
}

func newFileService(ctx context.Context, c *config.Config, api *client.HTTPClient, plain *http.Client, log logging.Logger) (services.FileService, error) {
	if c.Storage.Mode != config.StorageModeDirect {
		return services.NewBackendFileService(api, plain, log), nil
	}

	store, err := objectstore.NewS3Store(ctx, objectstore.Config{
		Bucket:       c.Storage.Bucket,
		Region:       c.Storage.Region,
		BaseEndpoint: c.Storage.BaseEndpoint,
		AccessKey:    c.Storage.AccessKey,
		SecretKey:    c.Storage.SecretKey,
		SignedURLTTL: c.Storage.SignedURLTTL,
	}, plain, log)
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}
	return services.NewDirectFileService(api, store, plain, log), nil
}

// wire connects the session controller, navigator and views. The HTTP
// client's unauthorized hook revokes the session.
func (a *App) wire(api *client.HTTPClient, bridge identity.Bridge, creds session.CredentialStore, fileSvc services.FileService) {
	a.session = session.NewController(api, bridge, creds, a.log)
	api.OnUnauthorized(a.session.Revoke)
	a.nav = router.NewNavigator(a.session, a.log)
	a.files = views.NewFileManager(fileSvc, a.config.DownloadDir, a.log)
	a.profile = views.NewProfile(api, a.session, a.log)
	a.dash = views.NewDashboard(api, a.log)
}

// Run validates the stored session and runs the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to filedesk (type 'help' for commands)")

	if a.session.Start(ctx).Authenticated() {
		_ = a.Dashboard(ctx)
	} else {
		a.nav.Go(ctx, router.Login)
		printlnFn("Please login or register.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close unmounts the active view and releases resources.
func (a *App) Close() {
	a.unmount()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn(context.Background(), "close failed", "err", err)
		}
	}
	a.closers = nil
}

func (a *App) isAuthView() bool {
	return a.nav != nil && a.nav.IsAuthView()
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated()
}

func (a *App) getStatus() string {
	u, err := a.session.User()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(%s)", u.Username)
}

// navigate applies the route guard and prints any pending notice. It
// reports whether v is now the current view.
func (a *App) navigate(ctx context.Context, v router.View) bool {
	res := a.nav.Go(ctx, v)
	if res.Notice != "" {
		fmt.Fprintln(a.out, res.Notice)
	}
	if res.View == v {
		return true
	}
	if res.View == router.Login {
		a.unmount()
		fmt.Fprintln(a.out, "Please login first.")
	}
	return false
}

// show navigates to v and mounts vm, refetching its data. It fails only
// when the guard redirected; fetch failures are left in the view state.
func (a *App) show(ctx context.Context, v router.View, vm view) error {
	if !a.navigate(ctx, v) {
		return session.ErrNotAuthenticated
	}
	a.unmount()
	a.active = vm
	if err := vm.Mount(ctx); err != nil {
		a.log.Debug(ctx, "view fetch failed", "view", string(v), "err", err)
	}
	return nil
}

// enter is like show but keeps vm mounted if it already is.
func (a *App) enter(ctx context.Context, v router.View, vm view) error {
	if a.active == vm {
		if !a.navigate(ctx, v) {
			return session.ErrNotAuthenticated
		}
		return nil
	}
	return a.show(ctx, v, vm)
}

func (a *App) unmount() {
	if a.active != nil {
		a.active.Unmount()
		a.active = nil
	}
}
