package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logsieve/pkg/callstack"
	"github.com/ccollicutt/logsieve/pkg/logentry"
	"github.com/ccollicutt/logsieve/pkg/output"
	"github.com/ccollicutt/logsieve/pkg/sink"
	"github.com/ccollicutt/logsieve/pkg/stacktrace"
	"github.com/ccollicutt/logsieve/pkg/webhook"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	for i := range cfg.Webhooks {
		cfg.Webhooks[i].Token = expandEnvVar(cfg.Webhooks[i].Token)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, fills defaults and compiles
// grammars.
func Validate(cfg *Config) error {
	for i := range cfg.Sources {
		if err := validateSource(&cfg.Sources[i]); err != nil {
			return fmt.Errorf("sources[%d] (%s): %w", i, cfg.Sources[i].Path, err)
		}
	}

	if !slices.Contains(output.Formats, cfg.Output) {
		return fmt.Errorf("output: invalid format %q (must be one of %s)", cfg.Output, strings.Join(output.Formats, ", "))
	}

	if err := compileGrammars(cfg); err != nil {
		return err
	}

	for i, rule := range cfg.IgnorePolicy {
		if rule.Method == "" {
			return fmt.Errorf("ignore_policy[%d]: method is required", i)
		}
	}

	for i, m := range cfg.StopMethods {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("stop_methods[%d]: empty method name", i)
		}
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

// ParseKind resolves a source kind name. "auto" and "" report false.
// The editor kind is never read from files and is rejected.
func ParseKind(name string) (logentry.SourceKind, bool, error) {
	if name == "" || name == DefaultKind {
		return 0, false, nil
	}
	kind, err := logentry.ParseSourceKind(name)
	if err != nil {
		return 0, false, err
	}
	if kind == logentry.SourceEditor {
		return 0, false, errors.New("editor input cannot be read from files")
	}
	return kind, true, nil
}

func validateSource(src *SourceConfig) error {
	if src.Path == "" {
		return errors.New("path is required")
	}
	if src.Kind == "" {
		src.Kind = DefaultKind
	}
	if _, _, err := ParseKind(src.Kind); err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	return nil
}

func compileGrammars(cfg *Config) error {
	custom := make(map[string]*stacktrace.Grammar, len(cfg.StackGrammars))
	for i, gc := range cfg.StackGrammars {
		if gc.Name == "" {
			return fmt.Errorf("stack_grammars[%d]: name is required", i)
		}
		if _, ok := stacktrace.Builtin(gc.Name); ok {
			return fmt.Errorf("stack_grammars[%d] (%s): name shadows a builtin grammar", i, gc.Name)
		}
		g, err := stacktrace.CompileGrammar(gc.Name, gc.Pattern)
		if err != nil {
			return fmt.Errorf("stack_grammars[%d] (%s): %w", i, gc.Name, err)
		}
		custom[gc.Name] = g
	}

	cfg.compiledGrammars = nil
	for i, name := range cfg.Grammars {
		if g, ok := custom[name]; ok {
			cfg.compiledGrammars = append(cfg.compiledGrammars, g)
			continue
		}
		if g, ok := stacktrace.Builtin(name); ok {
			cfg.compiledGrammars = append(cfg.compiledGrammars, g)
			continue
		}
		return fmt.Errorf("grammars[%d]: unknown grammar %q", i, name)
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	if wh.Trigger == "" {
		wh.Trigger = webhook.TriggerOnErrors
	} else if !slices.Contains(webhook.Triggers, wh.Trigger) {
		return fmt.Errorf("invalid trigger %q (must be on_errors, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// PolicyTable converts ignore_policy into a lookup table. Later rules for
// the same method win.
func (c *Config) PolicyTable() callstack.PolicyTable {
	table := make(callstack.PolicyTable, len(c.IgnorePolicy))
	for _, r := range c.IgnorePolicy {
		table.Set(r.Type, r.Method, callstack.Policy{
			Ignorable:       r.Ignorable,
			ShowAsExtraInfo: r.ShowAsExtraInfo,
		})
	}
	return table
}

// NewLogger creates a call-stack logger submitting to s, filtered by the
// ignore policy and stop methods.
func (c *Config) NewLogger(s sink.Sink) *callstack.Logger {
	return callstack.NewLogger(s, c.PolicyTable(), callstack.WithStopMethods(c.StopMethods...))
}

// WebhookTargets converts the webhook section for the webhook client.
func (c *Config) WebhookTargets() []webhook.Target {
	targets := make([]webhook.Target, 0, len(c.Webhooks))
	for _, wh := range c.Webhooks {
		targets = append(targets, webhook.Target{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
			Trigger: wh.Trigger,
		})
	}
	return targets
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
