package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/padho/internal/client/client"
	"github.com/dmitrijs2005/padho/internal/client/config"
	"github.com/dmitrijs2005/padho/internal/client/guard"
	"github.com/dmitrijs2005/padho/internal/client/models"
	"github.com/dmitrijs2005/padho/internal/client/oauth"
	"github.com/dmitrijs2005/padho/internal/client/services"
	"github.com/dmitrijs2005/padho/internal/client/session"
	"github.com/dmitrijs2005/padho/internal/logging"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	authService services.AuthService
	router      *guard.Router
	callback    *oauth.CallbackHandler
	reader      *bufio.Reader
	out         io.Writer

	mu       sync.Mutex
	location string
	landed   chan string
}

// NewApp wires the HTTP identity client, the session store and the auth
// service for the backend named in c.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	api, err := client.NewHTTPClient(c.BackendURL, c.RequestTimeout, log)
	if err != nil {
		return nil, err
	}
	return newApp(c, log, api, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, log logging.Logger, api client.Client, in *bufio.Reader, out io.Writer) *App {
	a := &App{
		config:   c,
		log:      log.With("component", "cli"),
		router:   guard.NewRouter(guard.DefaultRoutes()...),
		reader:   in,
		out:      out,
		location: guard.PathHome,
	}
	a.authService = services.NewAuthService(api, session.New(), log)
	a.callback = oauth.NewCallbackHandler(api, a.authService, a, a, log)
	return a
}

// Run starts the session check and blocks in the REPL until the user exits
// or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to Padho Aur Badho (type 'help' for commands)")

	unsubscribe := a.authService.Session().Subscribe(a.onSessionChange)
	defer unsubscribe()

	go a.authService.Start(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) state() models.AuthState {
	return a.authService.Session().State()
}

func (a *App) isLoggedIn() bool {
	return a.state().Status == models.StatusAuthenticated
}

func (a *App) getStatus() string {
	st := a.state()

	who := "guest"
	switch st.Status {
	case models.StatusAuthenticated:
		who = fmt.Sprintf("%s (%s)", st.User.Name, st.User.Role)
	case models.StatusLoading, models.StatusUninitialized:
		who = "..."
	}
	return fmt.Sprintf("%s %s", who, a.currentLocation())
}

func (a *App) currentLocation() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

func (a *App) setLocation(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.location = path
}

// onSessionChange re-runs the guard for the open view whenever the session
// settles. It is called with the auth service's lock held, so it only reads
// the router and never calls back into the service.
func (a *App) onSessionChange(st models.AuthState) {
	if !st.Status.Terminal() {
		return
	}

	a.mu.Lock()
	loc := a.location
	_, d, err := a.router.Resolve(loc, st)
	if err != nil || d.Outcome != guard.Redirect {
		a.mu.Unlock()
		return
	}
	a.location = d.Target
	a.mu.Unlock()

	a.log.Debug(context.Background(), "view no longer allowed", "from", loc, "to", d.Target)
	printlnFn("Redirected to", d.Target)
}
