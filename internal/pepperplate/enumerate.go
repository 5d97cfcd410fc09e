package pepperplate

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"

	"paprikaplate/internal/browser"
	"paprikaplate/internal/components/assert"
	"paprikaplate/internal/components/telemetry"
	"paprikaplate/internal/htmlutil"
)

const (
	report_enumerator_count     = "enumerator.count"
	report_enumerator_load_more = "enumerator.load-more"
	report_enumerator_read      = "enumerator.read"
)

type enumerationState int

const (
	state_counting enumerationState = iota
	state_loading
	state_complete
	state_stalled
)

type EnumeratorOptions struct {
	// navigated to before counting, empty stays on the current page
	ListingUrl string
	// upper bound on load more clicks
	MaxRounds int
	// consecutive rounds without a new recipe before giving up
	MaxStalledRounds int
}

type Enumerator struct {
	page browser.Page
	opts EnumeratorOptions
	tel  telemetry.API
}

func NewEnumerator(page browser.Page, opts EnumeratorOptions, tel telemetry.API) Enumerator {
	assert.Positive(opts.MaxRounds)
	assert.Positive(opts.MaxStalledRounds)
	return Enumerator{page: page, opts: opts, tel: tel}
}

// orderedSet keeps the first-seen order of recipe sources.
type orderedSet struct {
	index map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: map[string]struct{}{}}
}

func (s *orderedSet) add(item string) {
	if _, ok := s.index[item]; ok {
		return
	}
	s.index[item] = struct{}{}
	s.items = append(s.items, item)
}

func (s *orderedSet) len() int {
	return len(s.items)
}

var digitsRegex = regexp.MustCompile(`\d+`)

func (e Enumerator) expectedCount() (int, error) {
	el, ok := e.page.Find(loc_recipe_count)
	if !ok {
		e.tel.ReportBroken(report_enumerator_count, "count element missing")
		return 0, &EnumerationError{Reason: reason_count_unavailable}
	}
	text := el.Text()
	if text == "" {
		e.tel.ReportBroken(report_enumerator_count, "count element empty")
		return 0, &EnumerationError{Reason: reason_count_unavailable}
	}
	digits := digitsRegex.FindString(text)
	if digits == "" {
		e.tel.ReportBroken(report_enumerator_count, "no digits in count", text)
		return 0, &EnumerationError{Reason: reason_count_unavailable}
	}
	count, err := strconv.Atoi(digits)
	if err != nil {
		e.tel.ReportBroken(report_enumerator_count, err, text)
		return 0, &EnumerationError{Reason: reason_count_unavailable, Err: err}
	}
	return count, nil
}

// read adds every recipe link currently rendered in the listing, a listing item can be
// rendered twice while more items are loading.
func (e Enumerator) read(seen *orderedSet) {
	base := e.page.URL()
	for _, item := range e.page.FindAll(loc_recipe_item) {
		link, ok := item.Find(loc_item_link)
		if !ok {
			continue
		}
		href, _ := link.Attr("href")
		source, ok := htmlutil.ResolveUrl(base, href)
		if !ok {
			e.tel.ReportWarning(report_enumerator_read, "listing item without a link", href)
			continue
		}
		seen.add(source)
	}
}

func (e Enumerator) settle(got, expected, stalled, rounds int) enumerationState {
	if got >= expected {
		return state_complete
	}
	if stalled >= e.opts.MaxStalledRounds || rounds >= e.opts.MaxRounds {
		return state_stalled
	}
	return state_loading
}

// Enumerate returns the url of every recipe in the listing in the order they are
// listed. It clicks "load more" until the listing holds as many recipes as it claims
// to have, and fails rather than returning a partial list.
func (e Enumerator) Enumerate(ctx context.Context) ([]string, error) {
	slog.InfoContext(ctx, "loading recipe links")

	if e.opts.ListingUrl != "" {
		err := e.page.Goto(ctx, e.opts.ListingUrl)
		if err != nil {
			return nil, &EnumerationError{Reason: reason_listing_unavailable, Err: err}
		}
	}

	seen := newOrderedSet()
	expected := 0
	rounds := 0
	stalled := 0

	state := state_counting
	for {
		switch state {
		case state_counting:
			count, err := e.expectedCount()
			if err != nil {
				return nil, err
			}
			expected = count
			e.read(seen)
			state = e.settle(seen.len(), expected, stalled, rounds)

		case state_loading:
			if err := ctx.Err(); err != nil {
				return nil, &EnumerationError{Reason: reason_enumeration_canceled, Err: err}
			}
			rounds++
			before := seen.len()

			err := e.page.Click(ctx, loc_load_more)
			if err != nil && !errors.Is(err, browser.ErrElementNotFound) {
				e.tel.ReportBroken(report_enumerator_load_more, err)
				return nil, &EnumerationError{Reason: reason_load_more_failed, Err: err}
			}
			if err != nil {
				e.tel.ReportWarning(report_enumerator_load_more, "load more link is gone", seen.len(), expected)
			}
			loadMoreRounds.Add(ctx, 1)

			e.read(seen)
			if seen.len() > before {
				stalled = 0
			} else {
				stalled++
			}
			e.tel.ReportDebug(report_enumerator_load_more, rounds, seen.len(), expected)
			state = e.settle(seen.len(), expected, stalled, rounds)

		case state_complete:
			e.tel.ReportCount(report_enumerator_read, int64(seen.len()))
			slog.InfoContext(ctx, "loaded recipe links", "count", seen.len())
			return seen.items, nil

		case state_stalled:
			err := incompleteError(seen.len(), expected)
			e.tel.ReportBroken(report_enumerator_load_more, err, rounds, stalled)
			return nil, err
		}
	}
}
