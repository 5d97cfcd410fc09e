package pepperplate

import (
	"context"
	"errors"
	"testing"

	"paprikaplate/internal/components/telemetry/telemetrytest"

	"github.com/stretchr/testify/require"
)

func TestSignIn(t *testing.T) {
	site := newFakeSite(t)
	_, page, _ := site.serve()

	auth := NewAuthenticator(page, "/login.aspx", &telemetrytest.Recorder{})
	err := auth.SignIn(context.Background(), Credentials{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, "/home.aspx", page.URL().Path)

	// the session cookie carries over to later pages
	require.NoError(t, page.Goto(context.Background(), "/recipes/default.aspx"))
	require.Equal(t, "/recipes/default.aspx", page.URL().Path)
}

func TestSignInRejected(t *testing.T) {
	cases := []struct {
		name  string
		creds Credentials
	}{
		{name: "wrong password", creds: Credentials{Email: testEmail, Password: "nope"}},
		{name: "empty credentials", creds: Credentials{}},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			site := newFakeSite(t)
			_, page, _ := site.serve()
			rec := &telemetrytest.Recorder{}

			err := NewAuthenticator(page, "/login.aspx", rec).SignIn(context.Background(), test.creds)

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr), "got %v", err)
			require.Equal(t, reason_auth_rejected, authErr.Reason)
			require.Len(t, rec.Filter(telemetrytest.KIND_WARNING, report_authenticator_sign_in), 1)
		})
	}
}

func TestSignInUnreachable(t *testing.T) {
	site := newFakeSite(t)
	server, page, _ := site.serve()
	server.Close()

	err := NewAuthenticator(page, "/login.aspx", &telemetrytest.Recorder{}).
		SignIn(context.Background(), Credentials{Email: testEmail, Password: testPassword})

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "got %v", err)
	require.Error(t, authErr.Err)
	require.Contains(t, err.Error(), "sign in: invalid credentials or unreachable")
}

func TestSignInLoginPageMissing(t *testing.T) {
	site := newFakeSite(t)
	_, page, rec := site.serve()

	err := NewAuthenticator(page, "/missing.aspx", rec).
		SignIn(context.Background(), Credentials{Email: testEmail, Password: testPassword})

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "got %v", err)
	require.NotEmpty(t, rec.Filter(telemetrytest.KIND_BROKEN, report_authenticator_sign_in))
}
