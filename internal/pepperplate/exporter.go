package pepperplate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"paprikaplate/internal/browser"
	"paprikaplate/internal/components/assert"
	"paprikaplate/internal/components/chrono"
	"paprikaplate/internal/components/telemetry"
	"paprikaplate/internal/paprika"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_exporter_extract_all = "exporter.extract-all"
	report_exporter_export      = "exporter.export"
)

type Options struct {
	LoginUrl   string
	ListingUrl string
	Enumerator EnumeratorOptions
	// report failing recipes and leave them out instead of aborting the run
	SkipFailedRecipes bool
	// defaults to the system clock
	Clock chrono.API
}

// Exporter moves every recipe of a PepperPlate account into a Paprika import file.
type Exporter struct {
	auth       Authenticator
	enumerator Enumerator
	extractor  Extractor
	opts       Options
	clock      chrono.API
	tel        telemetry.API
}

func NewExporter(page browser.Page, fetcher browser.Fetcher, opts Options, tel telemetry.API) Exporter {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.LoginUrl)

	tel = telemetry.NewScopedAPI("pepperplate", tel)
	enumOpts := opts.Enumerator
	if enumOpts.ListingUrl == "" {
		enumOpts.ListingUrl = opts.ListingUrl
	}

	clock := opts.Clock
	if clock == nil {
		clock = chrono.StandardImpl{}
	}

	return Exporter{
		auth:       NewAuthenticator(page, opts.LoginUrl, tel),
		enumerator: NewEnumerator(page, enumOpts, tel),
		extractor:  NewExtractor(page, fetcher, tel),
		opts:       opts,
		clock:      clock,
		tel:        tel,
	}
}

func spanError(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// ExtractAll reads every source in order, appending to `recipes`.
func (e Exporter) ExtractAll(ctx context.Context, sources []string, recipes paprika.Collection) (paprika.Collection, error) {
	ctx, span := tracer.Start(ctx, "pipeline:Extract")
	defer span.End()

	for _, source := range sources {
		recipe, err := e.extractor.Extract(ctx, source)
		if err != nil {
			var extractErr *ExtractionError
			if e.opts.SkipFailedRecipes && errors.As(err, &extractErr) {
				e.tel.ReportWarning(report_exporter_extract_all, "skipping recipe", source, err)
				continue
			}
			return recipes, spanError(span, err)
		}
		recipes.Append(recipe)
		recipesExtracted.Add(ctx, 1)
	}

	span.SetAttributes(attribute.Int("recipes", recipes.Len()))
	return recipes, nil
}

// Collect signs in, lists every recipe and reads each of them.
func (e Exporter) Collect(ctx context.Context, creds Credentials) (paprika.Collection, error) {
	var recipes paprika.Collection

	signInCtx, span := tracer.Start(ctx, "pipeline:SignIn")
	err := spanError(span, e.auth.SignIn(signInCtx, creds))
	span.End()
	if err != nil {
		return recipes, err
	}

	enumCtx, span := tracer.Start(ctx, "pipeline:Enumerate")
	sources, err := e.enumerator.Enumerate(enumCtx)
	spanError(span, err)
	span.SetAttributes(attribute.Int("sources", len(sources)))
	span.End()
	if err != nil {
		return recipes, err
	}

	return e.ExtractAll(ctx, sources, recipes)
}

// Export runs the whole migration and writes the import file to `output`, nothing is
// written unless every stage succeeds.
func (e Exporter) Export(ctx context.Context, creds Credentials, output string) (paprika.Collection, error) {
	began := e.clock.Now()

	recipes, err := e.Collect(ctx, creds)
	if err != nil {
		return paprika.Collection{}, err
	}

	_, span := tracer.Start(ctx, "pipeline:Render")
	defer span.End()

	err = paprika.WriteFile(output, recipes)
	if err != nil {
		return paprika.Collection{}, spanError(span, fmt.Errorf("write %s: %w", output, err))
	}
	elapsed := e.clock.Since(began)
	e.tel.ReportDebug(report_exporter_export, recipes.Len(), elapsed)
	slog.InfoContext(ctx, "wrote recipes", "count", recipes.Len(), "path", output, "seconds", elapsed.Seconds())
	return recipes, nil
}
