package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsieve/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect the source kind of a log file",
		Long: `Sample a log file and report which source grammar it follows.

Recognises:
  - Device logcat dumps ("MM-DD HH:MM:SS.mmm L/Tag( pid): message")
  - Player log files ("[Level] HH:MM:SS.mmm|subtime message")
  - Forwarded binary record streams

Optionally generates a starter config file with --write-config.

Example:
  logsieve detect device.txt
  logsieve detect --sample 500 Player.log
  logsieve detect -w logsieve.yaml Player.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all matching grammars, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

// detection is the outcome for one file.
type detection struct {
	File      string
	Kind      string
	Forwarded bool
	Result    *detector.DetectionResult
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d, err := detect(ctx, logFile, opts.SampleSize)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, d, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, d, opts)
	default:
		return outputDetectText(w, d, opts)
	}
}

func detect(ctx context.Context, path string, sampleSize int) (*detection, error) {
	d := &detection{File: path, Result: &detector.DetectionResult{}}

	forwarded, err := detector.IsForwardedFile(path)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	if forwarded {
		d.Forwarded = true
		d.Kind = "forwarded"
		return d, nil
	}

	d.Result, err = detector.New(detector.WithSampleSize(sampleSize)).DetectFromFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	if kind, ok := d.Result.Kind(); ok {
		d.Kind = kind.String()
	}
	return d, nil
}

func outputDetectText(w io.Writer, d *detection, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Source Kind Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", d.File)

	if d.Forwarded {
		fmt.Fprintln(w, "Detected kind: forwarded (binary record stream)")
		return nil
	}

	fmt.Fprintf(w, "Lines sampled: %d\n", d.Result.SampledLines)
	fmt.Fprintf(w, "Lines matched: %d\n", d.Result.ParsedLines)
	fmt.Fprintln(w)

	if !d.Result.HasMatch() {
		fmt.Fprintln(w, "No known log format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: pass --kind to parse if you know the format.")
		return nil
	}

	best := d.Result.BestMatch()
	fmt.Fprintf(w, "Detected kind: %s (%s)\n", d.Kind, best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, d.Result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "sources:")
	fmt.Fprintf(w, "  - path: %s\n", d.File)
	fmt.Fprintf(w, "    kind: %s\n", d.Kind)
	fmt.Fprintln(w)

	if opts.ShowAll && len(d.Result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative grammars ---")
		for i, m := range d.Result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Fprintf(w, "   pattern: '%s'\n", m.Format.PatternStr)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a grammar match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Pattern    string  `json:"pattern"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string      `json:"file"`
	Kind         string      `json:"kind,omitempty"`
	Matches      []JSONMatch `json:"matches"`
	SampledLines int         `json:"sampled_lines"`
	ParsedLines  int         `json:"parsed_lines"`
}

func outputDetectJSON(w io.Writer, d *detection, opts *DetectOptions) error {
	out := JSONOutput{
		File:         d.File,
		Kind:         d.Kind,
		SampledLines: d.Result.SampledLines,
		ParsedLines:  d.Result.ParsedLines,
		Matches:      make([]JSONMatch, 0),
	}

	matches := d.Result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Kind:       m.Format.Kind.String(),
			Pattern:    m.Format.PatternStr,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file for the detected kind.
func writeStarterConfig(w io.Writer, d *detection, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if d.Kind == "" {
		return fmt.Errorf("cannot generate config: no log format detected")
	}

	cfg := generateStarterConfig(d.File, d.Kind)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(logFile, kind string) string {
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	return fmt.Sprintf(`# logsieve configuration
# Generated by: logsieve detect
# Detected kind: %s

sources:
  - path: %s
    kind: %s
  # Add more files or use globs:
  # - path: /var/log/game/*.log
  #   kind: auto

output: text
collapse: true
color: false
fail_on_error: false

# Stack grammars tried in order on stack text:
# grammars: [engine, logfile]

# Logging helpers hidden from captured call stacks:
# ignore_policy:
#   - type: Game.Log
#     method: Info
#     ignorable: true
#     show_as_extra_info: true

# webhooks:
#   - name: alerts
#     url: https://example.com/hook
#     token: ${LOGSIEVE_WEBHOOK_TOKEN}
#     trigger: on_errors
`, kind, absLogFile, kind)
}
