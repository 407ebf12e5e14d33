package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/api"
	"github.com/taskmaster-app/taskmaster-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account fields and creates a new account. It does
// not log the user in. Validation errors from the server are listed per
// field; a local password-confirmation mismatch never reaches the server.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	if password != confirm {
		fmt.Fprintln(a.out, "Passwords do not match.")
		return nil
	}

	err = a.session.Register(ctx, api.Registration{Username: username, Email: email, Password: password})
	if err != nil {
		var ve *api.ValidationError
		if errors.As(err, &ve) {
			a.printValidationError(ve)
			return nil
		}
		fmt.Fprintf(a.out, "Registration failed: %s\n", err)
		return nil
	}

	fmt.Fprintln(a.out, "Account created. You can now log in.")
	return nil
}

// Login prompts for credentials and authenticates. On success the workspace
// is loaded and the first task page is shown. Bad credentials are reported
// inline; there is no retry loop.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Login failed: invalid credentials.")
			return nil
		}
		fmt.Fprintf(a.out, "Login failed: %s\n", err)
		return nil
	}

	fmt.Fprintf(a.out, "Logged in as %s.\n", user.Username)
	a.refreshAndList(ctx)
	return nil
}

// Logout clears the stored credential pair and the session user. It always
// leaves the client logged out, even if wiping storage failed.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout cleanup failed", "error", err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) printValidationError(ve *api.ValidationError) {
	if len(ve.Fields) == 0 {
		fmt.Fprintln(a.out, "Invalid input.")
		return
	}
	names := make([]string, 0, len(ve.Fields))
	for name := range ve.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.out, "  %s: %s\n", name, strings.Join(ve.Fields[name], "; "))
	}
}

// requireLogin guards commands that need an active session.
func (a *App) requireLogin() bool {
	if a.isLoggedIn() {
		return true
	}
	fmt.Fprintln(a.out, "Please log in first.")
	return false
}
