package cli

import (
	"context"
	"errors"
	"fmt"
)

// getSimpleText, getSecret, getMultiline and confirm are indirections used
// to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getSecret     = GetSecret
	getMultiline  = GetMultiline
	confirm       = Confirm
)

// errFailed marks a command whose failure was already shown to the user.
var errFailed = errors.New("command failed")

func (a *App) fail(msg string) error {
	fmt.Fprintln(a.out, "Error:", msg)
	return errFailed
}

// Login asks for an email, requests a one-time code and exchanges it for a
// session. An empty email reuses the address the last code went to.
func (a *App) Login(ctx context.Context) error {
	prompt := "Enter email"
	pending := a.authService.PendingEmail(ctx)
	if pending != "" {
		prompt = fmt.Sprintf("Enter email (empty for %s)", pending)
	}
	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}

	if email == "" && pending != "" {
		email = pending
	} else {
		sent := a.authService.SendOTP(ctx, email)
		if !sent.Success {
			return a.fail(sent.Error)
		}
		fmt.Fprintln(a.out, "A one-time code was sent to", email)
	}

	code, err := getSecret(a.reader, "Enter the code", a.out)
	if err != nil {
		return err
	}

	res := a.authService.VerifyOTP(ctx, email, code)
	if !res.Success {
		return a.fail(res.Error)
	}
	a.user = res.Data
	fmt.Fprintf(a.out, "Welcome, %s (%s)\n", a.user.Name, a.user.Role)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	res := a.authService.CurrentUser(ctx)
	if !res.Success {
		a.user = nil
		return a.fail(res.Error)
	}
	a.user = res.Data
	fmt.Fprintf(a.out, "%s <%s> role: %s\n", a.user.Name, a.user.Email, a.user.Role)
	return nil
}

// Verify re-validates the stored token with the upstream. A rejected token
// logs the user out.
func (a *App) Verify(ctx context.Context) error {
	res := a.authService.VerifyToken(ctx)
	if !res.Success {
		a.user = nil
		a.refreshUser(ctx)
		return a.fail(res.Error)
	}
	a.user = res.Data
	fmt.Fprintf(a.out, "Session is valid: %s (%s)\n", a.user.Name, a.user.Role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	res := a.authService.Logout(ctx)
	if !res.Success {
		return a.fail(res.Error)
	}
	a.user = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
