package pepperplate

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var tracer = otel.Tracer("paprikaplate/pepperplate")
var meter = otel.Meter("paprikaplate/pepperplate")

var (
	loadMoreRounds   metric.Int64Counter
	recipesExtracted metric.Int64Counter
)

func init() {
	var err error
	loadMoreRounds, err = meter.Int64Counter(
		"paprikaplate.listing.load_more",
		metric.WithDescription("load more clicks made while enumerating the recipe listing"),
	)
	if err != nil {
		otel.Handle(err)
		loadMoreRounds = noop.Int64Counter{}
	}
	recipesExtracted, err = meter.Int64Counter(
		"paprikaplate.recipes.extracted",
		metric.WithDescription("recipes read from their pages"),
	)
	if err != nil {
		otel.Handle(err)
		recipesExtracted = noop.Int64Counter{}
	}
}
