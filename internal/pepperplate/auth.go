package pepperplate

import (
	"context"
	"fmt"
	"log/slog"

	"paprikaplate/internal/browser"
	"paprikaplate/internal/components/telemetry"
)

const report_authenticator_sign_in = "authenticator.sign-in"

type Credentials struct {
	Email    string
	Password string
}

type Authenticator struct {
	page     browser.Page
	loginUrl string
	tel      telemetry.API
}

func NewAuthenticator(page browser.Page, loginUrl string, tel telemetry.API) Authenticator {
	return Authenticator{page: page, loginUrl: loginUrl, tel: tel}
}

// SignIn submits the login form and confirms the session by looking for the sign out
// link on the page that follows.
func (a Authenticator) SignIn(ctx context.Context, creds Credentials) error {
	slog.InfoContext(ctx, "signing in", "email", creds.Email)

	err := a.page.Goto(ctx, a.loginUrl)
	if err != nil {
		a.tel.ReportBroken(report_authenticator_sign_in, fmt.Errorf("login page: %w", err))
		return &AuthError{Reason: reason_auth_rejected, Err: err}
	}

	err = a.page.Fill(loc_login_email, creds.Email)
	if err != nil {
		a.tel.ReportBroken(report_authenticator_sign_in, fmt.Errorf("fill email: %w", err))
		return &AuthError{Reason: reason_auth_rejected, Err: err}
	}
	err = a.page.Fill(loc_login_password, creds.Password)
	if err != nil {
		a.tel.ReportBroken(report_authenticator_sign_in, fmt.Errorf("fill password: %w", err))
		return &AuthError{Reason: reason_auth_rejected, Err: err}
	}
	err = a.page.Click(ctx, loc_login_submit)
	if err != nil {
		a.tel.ReportBroken(report_authenticator_sign_in, fmt.Errorf("submit: %w", err))
		return &AuthError{Reason: reason_auth_rejected, Err: err}
	}

	if _, ok := a.page.Find(loc_signed_in); !ok {
		a.tel.ReportWarning(report_authenticator_sign_in, "sign out link not found after submit", creds.Email)
		return &AuthError{Reason: reason_auth_rejected}
	}
	return nil
}
