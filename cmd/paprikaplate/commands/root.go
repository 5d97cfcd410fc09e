package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"paprikaplate/internal/browser"
	"paprikaplate/internal/components/telemetry"
	"paprikaplate/internal/configutil"
	"paprikaplate/internal/pepperplate"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-input"
)

var rootCmd = &cobra.Command{
	Use:   "paprikaplate",
	Short: "paprikaplate exports every recipe of a PepperPlate account into a Paprika import file.",
	Long: fmt.Sprintf(
		"paprikaplate signs into PepperPlate, reads every recipe and writes them as Paprika YAML.\n\n"+
			"Settings are read from %s (and %s for overrides) in the working directory, "+
			"email and password are asked for when they are not set there.",
		config_file, configutil.LocalPath(config_file),
	),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configutil.ReadConfig(config_file, defaultConfig(), false)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return run(cmd.Context(), cfg, input.DefaultUI())
	},
}

func run(ctx context.Context, cfg Config, ui *input.UI) error {
	telemetry.InitSlog(cfg.Verbose)

	otel, err := telemetry.SetupOtel(ctx, "paprikaplate", cfg.Otlp)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		err := otel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	}()

	var transcripts telemetry.TranscriptOutput
	if cfg.HttpDumpDir != "" {
		transcripts, err = telemetry.NewFilesystemOutput(cfg.HttpDumpDir)
		if err != nil {
			return fmt.Errorf("http dump dir: %w", err)
		}
	}

	creds, err := promptCredentials(ui, cfg)
	if err != nil {
		return err
	}

	tel := telemetry.SlogAPI{}
	page, err := browser.NewHttpPage(cfg.httpOptions(transcripts), tel)
	if err != nil {
		return err
	}

	exporter := pepperplate.NewExporter(page, page, cfg.exporterOptions(), tel)
	_, err = exporter.Export(ctx, creds, cfg.Output)
	return err
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
