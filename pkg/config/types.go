// Package config provides configuration loading and validation for logsieve.
package config

import (
	"time"

	"github.com/ccollicutt/logsieve/pkg/logentry"
	"github.com/ccollicutt/logsieve/pkg/stacktrace"
	"github.com/ccollicutt/logsieve/pkg/webhook"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Sources     []SourceConfig `yaml:"sources"`
	Output      string         `yaml:"output"`
	Collapse    bool           `yaml:"collapse"`
	Color       bool           `yaml:"color"`
	FailOnError bool           `yaml:"fail_on_error"`

	// Grammars orders the stack grammars tried on stack text. Entries name a
	// builtin grammar or one of StackGrammars.
	Grammars      []string        `yaml:"grammars,omitempty"`
	StackGrammars []GrammarConfig `yaml:"stack_grammars,omitempty"`

	// StopMethods end live stack walks in addition to the dispatch marker.
	StopMethods  []string       `yaml:"stop_methods,omitempty"`
	IgnorePolicy []PolicyRule   `yaml:"ignore_policy,omitempty"`
	Webhooks     []WebhookConfig `yaml:"webhooks,omitempty"`

	// compiledGrammars is the resolved Grammars list (populated during validation).
	compiledGrammars []*stacktrace.Grammar
}

// CompiledGrammars returns the grammars in the configured order, or nil for
// the default order.
func (c *Config) CompiledGrammars() []*stacktrace.Grammar {
	return c.compiledGrammars
}

// SourceConfig is one input.
type SourceConfig struct {
	// Path is a file path or glob pattern.
	Path string `yaml:"path"`

	// Kind is auto, logcat, logfile or forwarded. Defaults to auto.
	Kind string `yaml:"kind,omitempty"`
}

// SourceKind resolves Kind. auto reports false.
func (s SourceConfig) SourceKind() (logentry.SourceKind, bool, error) {
	return ParseKind(s.Kind)
}

// GrammarConfig is a user-defined stack grammar.
type GrammarConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// PolicyRule marks a method as a logging helper.
type PolicyRule struct {
	// Type is the declaring type. Empty matches the method on any type.
	Type            string `yaml:"type,omitempty"`
	Method          string `yaml:"method"`
	Ignorable       bool   `yaml:"ignorable"`
	ShowAsExtraInfo bool   `yaml:"show_as_extra_info"`
}

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_errors" if not specified.
	Trigger webhook.Trigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
