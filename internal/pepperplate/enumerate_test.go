package pepperplate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"paprikaplate/internal/browser"
	"paprikaplate/internal/components/telemetry/telemetrytest"

	"github.com/stretchr/testify/require"
)

func signedIn(t *testing.T, site *fakeSite) (*browser.HttpPage, string) {
	server, page, _ := site.serve()
	err := NewAuthenticator(page, "/login.aspx", &telemetrytest.Recorder{}).
		SignIn(context.Background(), Credentials{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	return page, server.URL
}

func expectSources(base string, ids ...int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fmt.Sprintf("%s/recipes/view.aspx?id=%d", base, id)
	}
	return out
}

func TestEnumerateLoadsEverything(t *testing.T) {
	site := newFakeSite(t, repeat("recipe_minimal.html", 5)...)
	page, base := signedIn(t, site)
	rec := &telemetrytest.Recorder{}

	sources, err := NewEnumerator(page, enumeratorOptions(), rec).
		Enumerate(context.Background())
	require.NoError(t, err)
	require.Equal(t, expectSources(base, 1, 2, 3, 4, 5), sources)

	// page 1 plus two load more rounds
	require.Equal(t, 3, site.loads())
	require.Len(t, rec.Filter(telemetrytest.KIND_DEBUG, report_enumerator_load_more), 2)
	counts := rec.Filter(telemetrytest.KIND_COUNT, report_enumerator_read)
	require.Len(t, counts, 1)
	require.EqualValues(t, 5, counts[0].Count)
}

func TestEnumerateWithoutLoadMore(t *testing.T) {
	site := newFakeSite(t, repeat("recipe_minimal.html", 3)...)
	site.pageSize = 10
	page, base := signedIn(t, site)

	sources, err := NewEnumerator(page, enumeratorOptions(), &telemetrytest.Recorder{}).
		Enumerate(context.Background())
	require.NoError(t, err)
	require.Equal(t, expectSources(base, 1, 2, 3), sources)
	require.Equal(t, 1, site.loads())
}

func TestEnumerateEmptyAccount(t *testing.T) {
	site := newFakeSite(t)
	page, _ := signedIn(t, site)

	sources, err := NewEnumerator(page, enumeratorOptions(), &telemetrytest.Recorder{}).
		Enumerate(context.Background())
	require.NoError(t, err)
	require.Empty(t, sources)
}

func TestEnumerateIsRepeatable(t *testing.T) {
	site := newFakeSite(t, repeat("recipe_minimal.html", 4)...)
	page, _ := signedIn(t, site)
	enumerator := NewEnumerator(page, enumeratorOptions(), &telemetrytest.Recorder{})

	first, err := enumerator.Enumerate(context.Background())
	require.NoError(t, err)
	second, err := enumerator.Enumerate(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnumerateIncomplete(t *testing.T) {
	cases := []struct {
		name         string
		dropLoadMore bool
		maxRounds    int
		stallAt      int
		got          int
	}{
		{name: "listing stops growing", stallAt: 3, got: 3},
		{name: "load more link disappears", stallAt: 3, dropLoadMore: true, got: 3},
		{name: "round limit", maxRounds: 1, got: 4},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			site := newFakeSite(t, repeat("recipe_minimal.html", 5)...)
			site.stallAt = test.stallAt
			site.dropLoadMore = test.dropLoadMore
			page, _ := signedIn(t, site)

			opts := enumeratorOptions()
			if test.maxRounds > 0 {
				opts.MaxRounds = test.maxRounds
			}
			rec := &telemetrytest.Recorder{}

			sources, err := NewEnumerator(page, opts, rec).Enumerate(context.Background())
			require.Nil(t, sources)

			var enumErr *EnumerationError
			require.True(t, errors.As(err, &enumErr), "got %v", err)
			require.Equal(t, test.got, enumErr.Got)
			require.Equal(t, 5, enumErr.Expected)
			require.Equal(t, fmt.Sprintf("enumerate recipes: incomplete: got %d of 5", test.got), err.Error())
			require.NotEmpty(t, rec.Filter(telemetrytest.KIND_BROKEN, report_enumerator_load_more))

			if test.dropLoadMore {
				require.Len(t, rec.Filter(telemetrytest.KIND_WARNING, report_enumerator_load_more), 3)
			}
		})
	}
}

func TestEnumerateLoadMoreFails(t *testing.T) {
	site := newFakeSite(t, repeat("recipe_minimal.html", 5)...)
	site.brokenLoadMore = true
	page, _ := signedIn(t, site)

	_, err := NewEnumerator(page, enumeratorOptions(), &telemetrytest.Recorder{}).
		Enumerate(context.Background())

	var enumErr *EnumerationError
	require.True(t, errors.As(err, &enumErr), "got %v", err)
	require.Equal(t, reason_load_more_failed, enumErr.Reason)
	require.Error(t, enumErr.Err)
}

func TestEnumerateCountUnavailable(t *testing.T) {
	cases := []struct {
		name      string
		countText string
		signedIn  bool
	}{
		{name: "blank count", countText: " ", signedIn: true},
		{name: "count without digits", countText: "many recipes", signedIn: true},
		{name: "count element missing", signedIn: false},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			site := newFakeSite(t, repeat("recipe_minimal.html", 2)...)
			site.countText = test.countText

			var page *browser.HttpPage
			if test.signedIn {
				page, _ = signedIn(t, site)
			} else {
				// the listing redirects to the login page
				_, page, _ = site.serve()
			}
			rec := &telemetrytest.Recorder{}

			_, err := NewEnumerator(page, enumeratorOptions(), rec).
				Enumerate(context.Background())

			var enumErr *EnumerationError
			require.True(t, errors.As(err, &enumErr), "got %v", err)
			require.Equal(t, reason_count_unavailable, enumErr.Reason)
			require.Len(t, rec.Filter(telemetrytest.KIND_BROKEN, report_enumerator_count), 1)
		})
	}
}

func TestEnumerateCanceled(t *testing.T) {
	site := newFakeSite(t, repeat("recipe_minimal.html", 5)...)
	page, _ := signedIn(t, site)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnumerator(page, enumeratorOptions(), &telemetrytest.Recorder{}).
		Enumerate(ctx)
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
