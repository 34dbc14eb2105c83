package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsieve/pkg/collapse"
	"github.com/ccollicutt/logsieve/pkg/config"
	"github.com/ccollicutt/logsieve/pkg/ingest"
	"github.com/ccollicutt/logsieve/pkg/logentry"
	"github.com/ccollicutt/logsieve/pkg/output"
	"github.com/ccollicutt/logsieve/pkg/parser"
	"github.com/ccollicutt/logsieve/pkg/sink"
	"github.com/ccollicutt/logsieve/pkg/stacktrace"
	"github.com/ccollicutt/logsieve/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Config      string
	Kind        string
	Output      string
	Verbose     bool
	Quiet       bool
	NoCollapse  bool
	Follow      bool
	Color       bool
	FailOnError bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [log-file...]",
		Short: "Parse log files into normalized entries",
		Long: `Parse device logcat dumps, player log files and forwarded record streams
into entries with a severity, message and structured stack frames.

Files may be given as arguments (globs allowed) or as sources in the
configuration file. The kind of each file is detected unless --kind is set.
Equal entries are collapsed into one row with a count.

Exit codes:
  0 - Success
  1 - Error entries found and --fail-on-error set
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", config.DefaultKind, "Source kind (auto|logcat|logfile|forwarded)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "Output format (text|json|table)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show every frame and extra info")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.NoCollapse, "no-collapse", false, "Keep repeated entries as separate rows")
	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Follow a single growing file and print entries as they arrive")
	cmd.Flags().BoolVar(&opts.Color, "color", false, "Color severities on terminals")
	cmd.Flags().BoolVar(&opts.FailOnError, "fail-on-error", false, "Exit 1 when any error entry is found")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(webhook.TriggerOnErrors), "When to fire webhook (on_errors|always|never)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadParseConfig(ctx, cmd, args, opts)
	if err != nil {
		return err
	}
	if len(cfg.Sources) == 0 {
		return errors.New("no log files given (pass files or set sources in --config)")
	}

	inputs, err := resolveInputs(ctx, cfg.Sources)
	if err != nil {
		return err
	}

	builder := logentry.NewBuilder(nil)
	if grammars := cfg.CompiledGrammars(); len(grammars) > 0 {
		builder = logentry.NewBuilder(stacktrace.NewParser(stacktrace.WithGrammars(grammars...)))
	}

	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		Color:   cfg.Color,
	}

	if opts.Follow {
		return runFollow(ctx, cmd.OutOrStdout(), inputs, cfg.Output, formatOpts, builder)
	}

	var collector *collapse.Collapser
	if cfg.Collapse {
		collector = collapse.New()
	} else {
		collector = collapse.NewList()
	}
	pipeline := ingest.New(collector, ingest.WithBuilder(builder))

	start := time.Now()
	meta := output.Metadata{ConfigFile: opts.Config}
	kinds := make(map[string]bool)
	for _, in := range inputs {
		stats, err := runInput(ctx, pipeline, in)
		if err != nil {
			return err
		}
		meta.Sources = append(meta.Sources, in.path)
		meta.RecordsRead += stats.Records
		meta.Dropped += stats.Dropped
		if !kinds[in.kind.String()] {
			kinds[in.kind.String()] = true
			if meta.Kind != "" {
				meta.Kind += ","
			}
			meta.Kind += in.kind.String()
		}
	}
	meta.Duration = time.Since(start)

	report := output.NewReport(collector, meta)

	formatter, err := output.NewFormatter(cfg.Output, formatOpts)
	if err != nil {
		return err
	}
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are reported but do not fail the run
	sendWebhooks(ctx, cmd.ErrOrStderr(), cfg, opts, report)

	if cfg.FailOnError && report.HasErrors() {
		ExitCode = 1
	}

	return nil
}

// loadParseConfig reads --config when given and lets explicitly set flags
// and positional files override it.
func loadParseConfig(ctx context.Context, cmd *cobra.Command, args []string, opts *ParseOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(ctx, opts.Config); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("color") {
		cfg.Color = opts.Color
	}
	if flags.Changed("fail-on-error") {
		cfg.FailOnError = opts.FailOnError
	}
	if opts.NoCollapse {
		cfg.Collapse = false
	}

	if len(args) > 0 {
		cfg.Sources = cfg.Sources[:0]
		for _, a := range args {
			cfg.Sources = append(cfg.Sources, config.SourceConfig{Path: a, Kind: opts.Kind})
		}
	} else if flags.Changed("kind") {
		for i := range cfg.Sources {
			cfg.Sources[i].Kind = opts.Kind
		}
	}

	if opts.WebhookURL != "" && !slices.Contains(webhook.Triggers, webhook.Trigger(opts.WebhookTrigger)) {
		return nil, fmt.Errorf("invalid --webhook-trigger %q (must be on_errors, always, or never)", opts.WebhookTrigger)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runInput feeds one file through the pipeline.
func runInput(ctx context.Context, p *ingest.Pipeline, in input) (*ingest.Stats, error) {
	if in.kind == logentry.SourceForwarded {
		f, err := os.Open(in.path) // #nosec G304 -- user-provided paths are expected
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", in.path, err)
		}
		defer f.Close()

		stats, err := p.RunForwarded(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.path, err)
		}
		return stats, nil
	}

	src := parser.NewFileSource([]string{in.path}, sourceOptions(in.kind)...)
	defer src.Close()

	stats, err := p.Run(ctx, in.kind, src)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	return stats, nil
}

// runFollow streams entries from one growing file until ctx is cancelled.
func runFollow(ctx context.Context, w io.Writer, inputs []input, format string, opts output.FormatOptions, builder *logentry.Builder) error {
	if len(inputs) != 1 {
		return fmt.Errorf("--follow takes exactly one file, got %d", len(inputs))
	}
	in := inputs[0]
	if in.kind == logentry.SourceForwarded {
		return errors.New("--follow does not support forwarded record streams")
	}

	stream, err := output.NewStreamSink(w, format, opts)
	if err != nil {
		return err
	}

	src, err := parser.NewTailSource(in.path, parser.TailOptions{FromStart: true}, sourceOptions(in.kind)...)
	if err != nil {
		return err
	}
	defer src.Close()

	router := sink.NewRouter(nil)
	router.Route(in.kind, stream)

	_, err = ingest.New(router, ingest.WithBuilder(builder)).Run(ctx, in.kind, src)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// sendWebhooks sends the report to the configured webhooks and the one given
// on the command line. Results are written to w.
func sendWebhooks(ctx context.Context, w io.Writer, cfg *config.Config, opts *ParseOptions, report *output.Report) {
	targets := cfg.WebhookTargets()
	if opts.WebhookURL != "" {
		targets = append(targets, webhook.Target{
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: webhook.Trigger(opts.WebhookTrigger),
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	if len(targets) == 0 {
		return
	}

	for _, resp := range webhook.NewClient().Notify(ctx, report, targets) {
		if resp.Success() {
			fmt.Fprintf(w, "Webhook %s: sent (%d, %s)\n", resp.URL, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(w, "Webhook %s: failed (%v)\n", resp.URL, resp.Error)
		}
	}
}
