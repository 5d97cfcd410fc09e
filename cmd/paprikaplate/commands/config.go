package commands

import (
	"time"

	"paprikaplate/internal/browser"
	"paprikaplate/internal/components/telemetry"
	"paprikaplate/internal/pepperplate"
)

const config_file = "paprikaplate.json5"

type Config struct {
	BaseUrl     string `json:"base_url"`
	LoginPath   string `json:"login_path"`
	ListingPath string `json:"listing_path"`
	Output      string `json:"output"`

	Email    string `json:"email"`
	Password string `json:"password"`

	MaxLoadMoreRounds int     `json:"max_load_more_rounds"`
	MaxStalledRounds  int     `json:"max_stalled_rounds"`
	// a zero in the config file keeps the default, a negative value disables rate limiting
	RequestsPerSecond float64 `json:"requests_per_second"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	SkipFailedRecipes bool    `json:"skip_failed_recipes"`

	Verbose     bool                 `json:"verbose"`
	HttpDumpDir string               `json:"http_dump_dir"`
	Otlp        telemetry.OtlpConfig `json:"otlp"`
}

func defaultConfig() Config {
	return Config{
		BaseUrl:           "https://www.pepperplate.com",
		LoginPath:         "/login.aspx",
		ListingPath:       "/recipes/default.aspx",
		Output:            "recipes.yaml",
		MaxLoadMoreRounds: 200,
		MaxStalledRounds:  3,
		RequestsPerSecond: 2,
		TimeoutSeconds:    30,
	}
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) httpOptions(transcripts telemetry.TranscriptOutput) browser.HttpOptions {
	return browser.HttpOptions{
		BaseUrl:           c.BaseUrl,
		RequestsPerSecond: c.RequestsPerSecond,
		Timeout:           c.timeout(),
		BypassCloudflare:  true,
		Transcripts:       transcripts,
	}
}

func (c Config) exporterOptions() pepperplate.Options {
	return pepperplate.Options{
		LoginUrl:   c.LoginPath,
		ListingUrl: c.ListingPath,
		Enumerator: pepperplate.EnumeratorOptions{
			MaxRounds:        c.MaxLoadMoreRounds,
			MaxStalledRounds: c.MaxStalledRounds,
		},
		SkipFailedRecipes: c.SkipFailedRecipes,
	}
}
