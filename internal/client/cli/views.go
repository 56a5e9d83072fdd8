package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/padho/internal/client/guard"
	"github.com/dmitrijs2005/padho/internal/client/models"
)

// Open shows the view at address. Protected views go through the guard:
// while the session is still being checked a placeholder is printed and
// the decision waits for the check to settle.
func (a *App) Open(ctx context.Context, address string) error {
	st := a.state()
	rt, d, err := a.router.Resolve(address, st)
	if err != nil {
		printlnFn("Page not found:", address)
		return err
	}

	if d.Outcome == guard.Pending {
		printlnFn("Loading...")
		if st, err = a.awaitSettled(ctx); err != nil {
			return err
		}
		rt, d, _ = a.router.Resolve(address, st)
	}

	if d.Outcome == guard.Redirect {
		printlnFn("Redirected to", d.Target)
		return a.Open(ctx, d.Target)
	}

	a.setLocation(rt.Path)
	render(rt, st)
	return nil
}

// awaitSettled returns the first terminal session state.
func (a *App) awaitSettled(ctx context.Context) (models.AuthState, error) {
	settled := make(chan models.AuthState, 1)
	unsubscribe := a.authService.Session().Subscribe(func(st models.AuthState) {
		if !st.Status.Terminal() {
			return
		}
		select {
		case settled <- st:
		default:
		}
	})
	defer unsubscribe()

	if st := a.state(); st.Status.Terminal() {
		return st, nil
	}
	select {
	case st := <-settled:
		return st, nil
	case <-ctx.Done():
		return models.AuthState{}, ctx.Err()
	}
}

func render(rt guard.Route, st models.AuthState) {
	printlnFn(fmt.Sprintf("== %s ==", rt.Title))
	if rt.Protected && st.User != nil {
		printlnFn(fmt.Sprintf("Welcome, %s (%s)", st.User.Name, st.User.Role))
	}
}

// Routes lists every view with the roles it needs.
func (a *App) Routes() {
	for _, p := range a.router.Paths() {
		rt, _, _ := a.router.Resolve(p, models.Anonymous())
		line := fmt.Sprintf("%-24s %s", p, rt.Title)
		if rt.Protected {
			line += fmt.Sprintf(" [%s]", roleList(rt.Roles))
		}
		printlnFn(line)
	}
}

func roleList(req guard.RoleRequirement) string {
	if len(req) == 0 {
		return "any role"
	}
	names := make([]string, 0, len(req))
	for r := range req {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Navigate implements oauth.Navigator. It also ends a pending provider
// sign-in started by Google.
func (a *App) Navigate(path string) {
	_ = a.Open(context.Background(), path)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.landed != nil {
		select {
		case a.landed <- path:
		default:
		}
	}
}

// Success implements oauth.Notifier.
func (a *App) Success(msg string) {
	printlnFn("[ok]", msg)
}

// Error implements oauth.Notifier.
func (a *App) Error(msg string) {
	printlnFn("[error]", msg)
}
