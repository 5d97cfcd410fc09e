package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// enclosingForm finds the form an element belongs to, falling back to the first form of
// the page since ASP.NET pages wrap everything in a single form.
func enclosingForm(doc *Document, sel *goquery.Selection) *goquery.Selection {
	if formId, ok := sel.Attr("form"); ok {
		form := doc.doc.Find("form#" + formId).First()
		if form.Length() > 0 {
			return form
		}
	}
	form := sel.Closest("form")
	if form.Length() > 0 {
		return form
	}
	return doc.doc.Find("form").First()
}

func isSubmitControl(sel *goquery.Selection) bool {
	switch goquery.NodeName(sel) {
	case "button":
		kind := strings.ToLower(sel.AttrOr("type", "submit"))
		return kind == "submit"
	case "input":
		kind := strings.ToLower(sel.AttrOr("type", "text"))
		return kind == "submit" || kind == "image"
	}
	return false
}

// formValues collects the successful controls of a form, values set through Fill take
// precedence over the ones in the markup.
func (p *HttpPage) formValues(form *goquery.Selection) url.Values {
	values := url.Values{}

	form.Find("input, select, textarea").Each(func(_ int, field *goquery.Selection) {
		name, ok := field.Attr("name")
		if !ok || name == "" {
			return
		}
		if _, disabled := field.Attr("disabled"); disabled {
			return
		}

		filled, hasFilled := p.filled[field.Get(0)]

		switch goquery.NodeName(field) {
		case "input":
			kind := strings.ToLower(field.AttrOr("type", "text"))
			switch kind {
			case "submit", "image", "button", "reset", "file":
				return
			case "checkbox", "radio":
				if _, checked := field.Attr("checked"); !checked && !hasFilled {
					return
				}
				if hasFilled && filled == "" {
					return
				}
				values.Add(name, field.AttrOr("value", "on"))
				return
			}
			if hasFilled {
				values.Add(name, filled)
				return
			}
			values.Add(name, field.AttrOr("value", ""))
		case "textarea":
			if hasFilled {
				values.Add(name, filled)
				return
			}
			values.Add(name, field.Text())
		case "select":
			if hasFilled {
				values.Add(name, filled)
				return
			}
			option := field.Find("option[selected]").First()
			if option.Length() == 0 {
				option = field.Find("option").First()
			}
			if option.Length() == 0 {
				return
			}
			value, ok := option.Attr("value")
			if !ok {
				value = strings.TrimSpace(option.Text())
			}
			values.Add(name, value)
		}
	})

	return values
}

func (p *HttpPage) submit(ctx context.Context, form *goquery.Selection, submitter *goquery.Selection, overrides map[string]string) error {
	if form.Length() == 0 {
		return fmt.Errorf("no form to submit")
	}

	values := p.formValues(form)
	if submitter != nil && isSubmitControl(submitter) {
		if name, ok := submitter.Attr("name"); ok && name != "" {
			if strings.ToLower(submitter.AttrOr("type", "")) == "image" {
				values.Set(name+".x", "0")
				values.Set(name+".y", "0")
			} else {
				values.Set(name, submitter.AttrOr("value", ""))
			}
		}
	} else if submitter != nil {
		return fmt.Errorf("<%s> does not submit a form", goquery.NodeName(submitter))
	}
	for k, v := range overrides {
		values.Set(k, v)
	}

	action, err := p.resolve(form.AttrOr("action", ""))
	if err != nil {
		action = p.current.URL().String()
	}
	method := strings.ToUpper(form.AttrOr("method", "GET"))

	var res *resty.Response
	switch method {
	case "POST":
		res, err = p.pages.R().
			SetContext(ctx).
			SetFormDataFromValues(values).
			Post(action)
	default:
		target, perr := url.Parse(action)
		if perr != nil {
			return perr
		}
		target.RawQuery = values.Encode()
		res, err = p.pages.R().
			SetContext(ctx).
			Get(target.String())
	}
	if err != nil {
		return err
	}
	return p.load(res)
}
