// Package browser defines the rendered-page capability the exporter drives and an
// HTTP implementation of it.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var ErrElementNotFound = errors.New("element not found")

// Locator is a CSS selector (with cascadia's :contains extension) identifying
// elements on the current page.
type Locator string

func ByID(id string) Locator {
	return Locator("#" + id)
}

func ByTagID(tag, id string) Locator {
	return Locator(fmt.Sprintf("%s#%s", tag, id))
}

func ByClass(tag, class string) Locator {
	return Locator(fmt.Sprintf("%s.%s", tag, class))
}

func ByText(tag, text string) Locator {
	return Locator(fmt.Sprintf("%s:contains(%q)", tag, text))
}

// Within scopes `child` to descendants of `parent`.
func Within(parent, child Locator) Locator {
	return Locator(fmt.Sprintf("%s %s", parent, child))
}

type Element interface {
	// Text is the rendered text of the element, lines separated by "\n".
	Text() string
	Attr(name string) (string, bool)
	// Find returns the first descendant matching the locator.
	Find(loc Locator) (Element, bool)
	FindAll(loc Locator) []Element
}

type Page interface {
	Goto(ctx context.Context, target string) error
	Click(ctx context.Context, loc Locator) error
	// Fill sets the value a form field will be submitted with.
	Fill(loc Locator, value string) error

	// Find returns the first element matching the locator and whether it exists, in a
	// single read.
	Find(loc Locator) (Element, bool)
	FindAll(loc Locator) []Element
	// URL is the location of the currently loaded page, nil before the first load.
	URL() *url.URL
}

// Fetcher loads a side resource without navigating away from the current page.
type Fetcher interface {
	Fetch(ctx context.Context, target string) ([]byte, error)
}
