package pepperplate

import (
	"embed"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"paprikaplate/internal/browser"
	"paprikaplate/internal/components/telemetry/telemetrytest"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.html
var testdata embed.FS

func fixture(t *testing.T, name string) string {
	contents, err := testdata.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(contents)
}

const (
	testEmail    = "cook@example.com"
	testPassword = "hunter2"
	testSession  = "ASP.NET_SessionId"
)

var testPhoto = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

// fakeSite serves a small PepperPlate account over httptest.
type fakeSite struct {
	t *testing.T

	// recipes[i] is the fixture served for id i+1
	recipes  []string
	pageSize int
	// listing stops growing after this many recipes, 0 never stalls
	stallAt int
	// the load more link is dropped once the listing stalls
	dropLoadMore bool
	// load more answers with a server error
	brokenLoadMore bool
	countText      string
	photoStatus    int

	mutex         sync.Mutex
	listingLoads  int
	photoRequests int
}

func newFakeSite(t *testing.T, recipes ...string) *fakeSite {
	return &fakeSite{
		t:           t,
		recipes:     recipes,
		pageSize:    2,
		photoStatus: http.StatusOK,
	}
}

func (s *fakeSite) signedIn(r *http.Request) bool {
	cookie, err := r.Cookie(testSession)
	return err == nil && cookie.Value == "session-1"
}

func (s *fakeSite) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		fmt.Fprintf(w, fixture(s.t, "login.html"), "")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// postbacks without the page state or the clicked button are rejected by ASP.NET
	if r.PostForm.Get("__VIEWSTATE") != "dDwtMTA4NzM2NTk5Mjs7Pg==" ||
		!r.PostForm.Has("ctl00$cphMain$loginForm$ibSubmit.x") {
		http.Error(w, "invalid postback", http.StatusBadRequest)
		return
	}

	if r.PostForm.Get("ctl00$cphMain$loginForm$tbEmail") != testEmail ||
		r.PostForm.Get("ctl00$cphMain$loginForm$tbPassword") != testPassword {
		fmt.Fprintf(w, fixture(s.t, "login.html"), "Invalid email or password.")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: testSession, Value: "session-1", Path: "/"})
	http.Redirect(w, r, "/home.aspx", http.StatusFound)
}

func (s *fakeSite) home(w http.ResponseWriter, r *http.Request) {
	if !s.signedIn(r) {
		http.Redirect(w, r, "/login.aspx", http.StatusFound)
		return
	}
	fmt.Fprint(w, fixture(s.t, "home.html"))
}

func (s *fakeSite) listing(w http.ResponseWriter, r *http.Request) {
	if !s.signedIn(r) {
		http.Redirect(w, r, "/login.aspx", http.StatusFound)
		return
	}
	s.mutex.Lock()
	s.listingLoads++
	s.mutex.Unlock()

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		var err error
		page, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if page > 1 && s.brokenLoadMore {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	shown := page * s.pageSize
	if shown > len(s.recipes) {
		shown = len(s.recipes)
	}
	stalled := s.stallAt > 0 && shown >= s.stallAt
	if stalled {
		shown = s.stallAt
	}

	count := s.countText
	if count == "" {
		count = fmt.Sprintf("%d recipes", len(s.recipes))
	}

	var b strings.Builder
	b.WriteString(`<html><body><div id="header"><a href="/logout.aspx">Sign Out</a></div>`)
	fmt.Fprintf(&b, `<div id="reclistcount">%s</div><div id="reclist">`, count)
	for i := 1; i <= shown; i++ {
		fmt.Fprintf(&b, `<div class="item"><a href="view.aspx?id=%d">Recipe %d</a></div>`, i, i)
	}
	// the first item of every loaded batch is rendered twice
	if shown > 0 {
		b.WriteString(`<div class="item"><a href="view.aspx?id=1">Recipe 1</a></div>`)
	}
	b.WriteString(`<div class="item"><span>advertisement</span></div></div>`)
	if shown < len(s.recipes) && !(stalled && s.dropLoadMore) {
		fmt.Fprintf(&b, `<a id="loadmorelink" href="default.aspx?page=%d">Load more</a>`, page+1)
	}
	b.WriteString(`</body></html>`)
	fmt.Fprint(w, b.String())
}

func (s *fakeSite) recipe(w http.ResponseWriter, r *http.Request) {
	if !s.signedIn(r) {
		http.Redirect(w, r, "/login.aspx", http.StatusFound)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id < 1 || id > len(s.recipes) {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, fixture(s.t, s.recipes[id-1]))
}

func (s *fakeSite) photo(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.photoRequests++
	s.mutex.Unlock()

	if s.photoStatus != http.StatusOK {
		http.Error(w, http.StatusText(s.photoStatus), s.photoStatus)
		return
	}
	w.Header().Set("content-type", "image/jpeg")
	w.Write(testPhoto)
}

func (s *fakeSite) serve() (*httptest.Server, *browser.HttpPage, *telemetrytest.Recorder) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login.aspx", s.login)
	mux.HandleFunc("/home.aspx", s.home)
	mux.HandleFunc("/recipes/default.aspx", s.listing)
	mux.HandleFunc("/recipes/view.aspx", s.recipe)
	mux.HandleFunc("/images/soup.jpg", s.photo)

	server := httptest.NewServer(mux)
	s.t.Cleanup(server.Close)

	rec := &telemetrytest.Recorder{}
	page, err := browser.NewHttpPage(browser.HttpOptions{BaseUrl: server.URL}, rec)
	require.NoError(s.t, err)
	return server, page, rec
}

func testOptions() Options {
	return Options{
		LoginUrl:   "/login.aspx",
		ListingUrl: "/recipes/default.aspx",
		Enumerator: EnumeratorOptions{
			MaxRounds:        20,
			MaxStalledRounds: 3,
		},
	}
}

func enumeratorOptions() EnumeratorOptions {
	opts := testOptions().Enumerator
	opts.ListingUrl = "/recipes/default.aspx"
	return opts
}

func (s *fakeSite) loads() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.listingLoads
}

func (s *fakeSite) photos() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.photoRequests
}

func repeat(name string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = name
	}
	return out
}
