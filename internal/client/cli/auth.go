package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/padho/internal/client/client"
	"github.com/dmitrijs2005/padho/internal/client/guard"
	"github.com/dmitrijs2005/padho/internal/client/models"
	"github.com/dmitrijs2005/padho/internal/shared"
)

// getSimpleText, getPassword and getChoice are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getChoice     = GetChoice
)

var selfServiceRoles = []string{string(models.RoleStudent), string(models.RoleInstructor)}

// Register prompts for name, email, password and role and creates the
// account. Registration never signs the user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	role, err := getChoice(a.reader, "Role", selfServiceRoles, string(models.RoleStudent), a.out)
	if err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	req := client.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: string(password),
		Role:     models.Role(role),
	}
	if err := a.authService.Register(ctx, req); err != nil {
		printlnFn("Registration failed:", describe(err))
		return err
	}

	printlnFn("Registration successful! Please login.")
	return nil
}

// Login prompts for credentials, signs in and opens the landing view of
// the confirmed role.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, string(password)); err != nil {
		a.log.Info(ctx, "login rejected", "error", err)
		printlnFn("Login failed:", describe(err))
		return err
	}

	printlnFn("Login successful!")
	return a.Open(ctx, guard.LandingPath(a.state().Role()))
}

// Logout signs out and returns to the home view. It cannot fail.
func (a *App) Logout(ctx context.Context) error {
	_ = a.authService.Logout(ctx)
	printlnFn("Logged out")
	return a.Open(ctx, guard.PathHome)
}

// Refresh re-reads the session from the backend.
func (a *App) Refresh(ctx context.Context) {
	st := a.authService.CheckAuth(ctx)
	printlnFn("Session:", string(st.Status))
}

// Whoami prints the cached identity.
func (a *App) Whoami() {
	st := a.state()
	switch st.Status {
	case models.StatusAuthenticated:
		u := st.User
		printlnFn(fmt.Sprintf("%s <%s> (%s)", u.Name, u.Email, u.Role))
		if u.Picture != "" {
			printlnFn("Picture:", u.Picture)
		}
	case models.StatusAnonymous:
		printlnFn("Not signed in")
	default:
		printlnFn("Checking session...")
	}
}

// describe turns an auth error into the message shown to the user,
// preferring the backend's own wording.
func describe(err error) string {
	if d := client.Detail(err); d != "" {
		return d
	}
	switch {
	case errors.Is(err, client.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, client.ErrEmailTaken):
		return "Email already registered"
	case errors.Is(err, client.ErrNetwork):
		return "Cannot reach the server, try again later"
	case errors.Is(err, client.ErrUnauthenticated):
		return "Session could not be established"
	default:
		return err.Error()
	}
}
