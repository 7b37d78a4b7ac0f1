package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filedesk/internal/client/client"
	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/client/router"
	"github.com/dmitrijs2005/filedesk/internal/client/validation"
	"github.com/dmitrijs2005/filedesk/internal/common"
)

// getSimpleText, getTextWithDefault, getYesNo and getPassword are
// indirections used to facilitate testing.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getYesNo           = GetYesNo
	getPassword        = GetPassword
)

// textField is a prompt whose answer is stored in dst. A non-empty dst is
// offered as the default.
type textField struct {
	prompt string
	dst    *string
}

func (a *App) readFields(fields ...textField) error {
	for _, f := range fields {
		v, err := getTextWithDefault(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

// openAuthView navigates to the login or registration view. It returns
// false, after telling the user, when a session is already live.
func (a *App) openAuthView(ctx context.Context, v router.View) bool {
	a.unmount()
	if res := a.nav.Go(ctx, v); res.View != v {
		fmt.Fprintln(a.out, "Already logged in. Use 'logout' first.")
		return false
	}
	return true
}

// Login prompts for email and password and authenticates.
//
// The identity provider is tried first; if it rejects the credentials the
// backend's own login is tried. When both fail the provider's message is
// shown. On success the dashboard is opened.
func (a *App) Login(ctx context.Context) error {
	if !a.openAuthView(ctx, router.Login) {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := validation.Login(email, string(password)); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	out := a.session.Login(ctx, email, string(password))
	if !out.OK() {
		a.log.Info(ctx, "login failed", "kind", string(out.Kind), "provider_err", out.ProviderErr, "fallback_err", out.FallbackErr)
		fmt.Fprintln(a.out, out.Message())
		return out.Err
	}

	a.log.Info(ctx, "login successful", "kind", string(out.Kind))
	fmt.Fprintln(a.out, "Login successful")
	return a.Dashboard(ctx)
}

// Register prompts for the registration form, creates the account and
// signs in.
func (a *App) Register(ctx context.Context) error {
	if !a.openAuthView(ctx, router.Register) {
		return nil
	}

	var req models.RegisterRequest
	if err := a.readFields(
		textField{"Username", &req.Username},
		textField{"Email", &req.Email},
	); err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	req.Password, req.PasswordConfirm = string(password), string(confirm)

	if err := a.readFields(
		textField{"First name", &req.FirstName},
		textField{"Last name", &req.LastName},
		textField{"Phone number (optional)", &req.PhoneNumber},
	); err != nil {
		return err
	}

	if err := validation.Register(req); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	if err := a.session.Register(ctx, req); err != nil {
		a.log.Info(ctx, "registration failed", "err", err)
		fmt.Fprintln(a.out, client.Message(err))
		return err
	}

	fmt.Fprintln(a.out, "Registration successful")
	return a.Dashboard(ctx)
}

// Logout ends the session. It never fails.
func (a *App) Logout(ctx context.Context) error {
	a.unmount()
	a.session.Logout(ctx)
	a.nav.Go(ctx, router.Login)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.session.User()
	if err != nil {
		fmt.Fprintln(a.out, "Not logged in")
		return err
	}
	renderUser(a.out, u)
	return nil
}
