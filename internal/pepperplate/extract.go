package pepperplate

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"paprikaplate/internal/browser"
	"paprikaplate/internal/components/assert"
	"paprikaplate/internal/components/telemetry"
	"paprikaplate/internal/htmlutil"
	"paprikaplate/internal/paprika"
)

const (
	report_extractor_extract = "extractor.extract"
	report_extractor_photo   = "extractor.photo"
)

const category_separator = ", "

type Extractor struct {
	page    browser.Page
	fetcher browser.Fetcher
	tel     telemetry.API
}

func NewExtractor(page browser.Page, fetcher browser.Fetcher, tel telemetry.API) Extractor {
	assert.NotNil(page)
	assert.NotNil(fetcher)
	return Extractor{page: page, fetcher: fetcher, tel: tel}
}

// text is the rendered text of the first element matching `loc`, absent when the element
// is missing or renders no text.
func (e Extractor) text(loc browser.Locator) (string, bool) {
	el, ok := e.page.Find(loc)
	if !ok {
		return "", false
	}
	text := el.Text()
	return text, text != ""
}

func (e Extractor) optionalText(loc browser.Locator) paprika.Optional[string] {
	text, ok := e.text(loc)
	if !ok {
		return paprika.Optional[string]{}
	}
	return paprika.Some(text)
}

func (e Extractor) texts(loc browser.Locator) []string {
	var out []string
	for _, el := range e.page.FindAll(loc) {
		text := el.Text()
		if text == "" {
			continue
		}
		out = append(out, text)
	}
	return out
}

func (e Extractor) attribution() paprika.Optional[paprika.Attribution] {
	el, ok := e.page.Find(loc_source)
	if !ok {
		return paprika.Optional[paprika.Attribution]{}
	}
	name := el.Text()
	href, _ := el.Attr("href")
	link, ok := htmlutil.ResolveUrl(e.page.URL(), href)
	if name == "" || !ok {
		return paprika.Optional[paprika.Attribution]{}
	}
	return paprika.Some(paprika.Attribution{Name: name, Url: link})
}

// SplitCategories splits the rendered tag list into categories in display order.
func SplitCategories(text string) []string {
	var out []string
	for _, c := range strings.Split(text, category_separator) {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e Extractor) categories() paprika.Optional[[]string] {
	text, ok := e.text(loc_categories)
	if !ok {
		return paprika.Optional[[]string]{}
	}
	categories := SplitCategories(text)
	if len(categories) == 0 {
		return paprika.Optional[[]string]{}
	}
	return paprika.Some(categories)
}

func (e Extractor) photo(ctx context.Context) (paprika.Optional[string], error) {
	el, ok := e.page.Find(loc_photo)
	if !ok {
		return paprika.Optional[string]{}, nil
	}
	src, _ := el.Attr("src")
	link, ok := htmlutil.ResolveUrl(e.page.URL(), src)
	if !ok {
		return paprika.Optional[string]{}, nil
	}

	contents, err := e.fetcher.Fetch(ctx, link)
	if err != nil {
		e.tel.ReportBroken(report_extractor_photo, err, link)
		return paprika.Optional[string]{}, err
	}
	return paprika.Some(base64.StdEncoding.EncodeToString(contents)), nil
}

// Extract navigates to a recipe page and reads it into a recipe.
func (e Extractor) Extract(ctx context.Context, source string) (paprika.Recipe, error) {
	err := e.page.Goto(ctx, source)
	if err != nil {
		e.tel.ReportBroken(report_extractor_extract, fmt.Errorf("goto: %w", err), source)
		return paprika.Recipe{}, &ExtractionError{Source: source, Reason: reason_page_unavailable, Err: err}
	}
	return e.Read(ctx, source)
}

// Read reads the recipe on the currently loaded page, `source` is only used to
// identify the recipe in errors.
func (e Extractor) Read(ctx context.Context, source string) (paprika.Recipe, error) {
	name, ok := e.text(loc_name)
	if !ok {
		e.tel.ReportBroken(report_extractor_extract, "no heading", source)
		return paprika.Recipe{}, &ExtractionError{Source: source, Reason: reason_missing_name}
	}
	recipe := paprika.Recipe{
		Name: strings.Join(strings.Fields(name), " "),
	}
	slog.InfoContext(ctx, "reading recipe", "name", recipe.Name)

	recipe.Source = e.attribution()
	recipe.Description = e.optionalText(loc_description)
	recipe.Servings = e.optionalText(loc_servings)
	recipe.PrepTime = e.optionalText(loc_prep_time)
	recipe.Categories = e.categories()
	if notes, ok := e.text(loc_notes); ok {
		recipe.Notes = []string{notes}
	}

	photo, err := e.photo(ctx)
	if err != nil {
		return paprika.Recipe{}, &ExtractionError{Source: source, Reason: reason_photo_fetch_failed, Err: err}
	}
	recipe.Photo = photo

	recipe.Ingredients = e.texts(loc_ingredients)
	recipe.Directions = e.texts(loc_directions)

	return recipe, nil
}
