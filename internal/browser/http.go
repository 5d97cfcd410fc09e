package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"paprikaplate/internal/components/assert"
	"paprikaplate/internal/components/telemetry"
	"paprikaplate/internal/htmlutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	report_http_page_goto  = "http-page.goto"
	report_http_page_click = "http-page.click"
	report_http_page_fetch = "http-page.fetch"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type HttpOptions struct {
	BaseUrl string
	// 0 or less disables rate limiting
	RequestsPerSecond float64
	Timeout           time.Duration
	BypassCloudflare  bool
	// may be nil
	Transcripts telemetry.TranscriptOutput
}

// HttpPage renders pages by requesting them over HTTP and parsing the response,
// clicks follow links or submit the enclosing form.
type HttpPage struct {
	baseUrl *url.URL
	pages   *resty.Client
	assets  *resty.Client
	tel     telemetry.API

	current *Document
	filled  map[*html.Node]string
}

func NewHttpPage(opts HttpOptions, tel telemetry.API) (*HttpPage, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseUrl)

	tel = telemetry.NewScopedAPI("browser", tel)

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second * 30
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	newClient := func() *resty.Client {
		client := resty.New()
		client.SetCookieJar(jar)
		if opts.BypassCloudflare {
			client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
		}
		client.SetHeader("user-agent", userAgent)
		client.SetTimeout(timeout)
		if limiter != nil {
			client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
				return limiter.Wait(req.Context())
			})
		}
		telemetry.InstrumentResty(client, tel, opts.Transcripts)
		return client
	}

	pages := newClient()
	pages.SetBaseURL(opts.BaseUrl)
	pages.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))

	// photos are usually served from a different host than the pages
	assets := newClient()
	assets.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &HttpPage{
		baseUrl: baseUrl,
		pages:   pages,
		assets:  assets,
		tel:     tel,
		filled:  map[*html.Node]string{},
	}, nil
}

func (p *HttpPage) resolve(target string) (string, error) {
	base := p.baseUrl
	if p.current != nil {
		base = p.current.URL()
	}
	resolved, ok := htmlutil.ResolveUrl(base, target)
	if !ok {
		return "", fmt.Errorf("invalid url '%s'", target)
	}
	return resolved, nil
}

func (p *HttpPage) load(res *resty.Response) error {
	if res.IsError() {
		return fmt.Errorf("unexpected status %s", res.Status())
	}

	location := p.baseUrl
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		location = res.RawResponse.Request.URL
	}
	doc, err := NewDocument(location, bytes.NewReader(res.Body()))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	p.current = doc
	p.filled = map[*html.Node]string{}
	return nil
}

func (p *HttpPage) Goto(ctx context.Context, target string) error {
	endpoint, err := p.resolve(target)
	if err != nil {
		p.tel.ReportBroken(report_http_page_goto, err)
		return err
	}
	p.tel.ReportDebug(report_http_page_goto, endpoint)

	res, err := p.pages.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("goto %s: %w", endpoint, err)
	}
	err = p.load(res)
	if err != nil {
		p.tel.ReportBroken(report_http_page_goto, err, endpoint)
		return fmt.Errorf("goto %s: %w", endpoint, err)
	}
	return nil
}

var postbackRegex = regexp.MustCompile(`__doPostBack\(\s*['"]([^'"]*)['"]\s*,\s*['"]([^'"]*)['"]\s*\)`)

func (p *HttpPage) Click(ctx context.Context, loc Locator) error {
	if p.current == nil {
		return fmt.Errorf("click %s: %w", loc, ErrElementNotFound)
	}
	sel := p.current.selection(loc)
	if sel.Length() == 0 {
		return fmt.Errorf("click %s: %w", loc, ErrElementNotFound)
	}
	p.tel.ReportDebug(report_http_page_click, string(loc))

	var err error
	switch goquery.NodeName(sel) {
	case "a":
		err = p.clickAnchor(ctx, sel)
	case "input", "button":
		err = p.submit(ctx, enclosingForm(p.current, sel), sel, nil)
	default:
		err = fmt.Errorf("<%s> is not clickable", goquery.NodeName(sel))
	}
	if err != nil {
		p.tel.ReportBroken(report_http_page_click, err, string(loc))
		return fmt.Errorf("click %s: %w", loc, err)
	}
	return nil
}

func (p *HttpPage) clickAnchor(ctx context.Context, anchor *goquery.Selection) error {
	href := strings.TrimSpace(anchor.AttrOr("href", ""))

	if strings.HasPrefix(strings.ToLower(href), "javascript:") {
		groups := postbackRegex.FindStringSubmatch(href)
		if len(groups) < 3 {
			return fmt.Errorf("unsupported script link '%s'", href)
		}
		return p.submit(ctx, enclosingForm(p.current, anchor), nil, map[string]string{
			"__EVENTTARGET":   groups[1],
			"__EVENTARGUMENT": groups[2],
		})
	}
	if href == "" || href == "#" {
		return fmt.Errorf("anchor has no target")
	}

	endpoint, err := p.resolve(href)
	if err != nil {
		return err
	}
	res, err := p.pages.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return err
	}
	return p.load(res)
}

func (p *HttpPage) Fill(loc Locator, value string) error {
	if p.current == nil {
		return fmt.Errorf("fill %s: %w", loc, ErrElementNotFound)
	}
	sel := p.current.selection(loc)
	if sel.Length() == 0 {
		return fmt.Errorf("fill %s: %w", loc, ErrElementNotFound)
	}
	switch goquery.NodeName(sel) {
	case "input", "textarea", "select":
	default:
		return fmt.Errorf("fill %s: <%s> is not a form field", loc, goquery.NodeName(sel))
	}
	p.filled[sel.Get(0)] = value
	return nil
}

func (p *HttpPage) Find(loc Locator) (Element, bool) {
	if p.current == nil {
		return nil, false
	}
	return p.current.Find(loc)
}

func (p *HttpPage) FindAll(loc Locator) []Element {
	if p.current == nil {
		return nil
	}
	return p.current.FindAll(loc)
}

func (p *HttpPage) URL() *url.URL {
	if p.current == nil {
		return nil
	}
	return p.current.URL()
}

func (p *HttpPage) Fetch(ctx context.Context, target string) ([]byte, error) {
	endpoint, err := p.resolve(target)
	if err != nil {
		return nil, err
	}
	p.tel.ReportDebug(report_http_page_fetch, endpoint)

	res, err := p.assets.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	if res.IsError() {
		err = fmt.Errorf("fetch %s: unexpected status %s", endpoint, res.Status())
		p.tel.ReportBroken(report_http_page_fetch, err)
		return nil, err
	}
	return res.Body(), nil
}
