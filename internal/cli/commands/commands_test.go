package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// run executes cmd with args and returns stdout and stderr.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func resetExitCode(t *testing.T) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })
}

func TestNewParseCommand(t *testing.T) {
	cmd := NewParseCommand()

	if cmd.Use != "parse [log-file...]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	for _, flag := range []string{"config", "kind", "output", "verbose", "quiet", "no-collapse", "follow", "color", "fail-on-error", "webhook-url"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, NewVersionCommand())
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "logsieve dev\n" {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCommand_Verbose(t *testing.T) {
	out, _, err := run(t, NewVersionCommand(), "--verbose")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"logsieve dev\n", "logcat", "logfile", "forwarded", "1540-byte", "compile-diagnostic"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate_Success(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "Player.log", "[Log] 10:00:00.000|0.1 hi\n")
	configPath := writeFile(t, dir, "config.yaml", `sources:
  - path: `+logPath+`
    kind: logfile
grammars: [logfile, engine]
ignore_policy:
  - method: Info
    ignorable: true
`)

	out, _, err := run(t, NewValidateCommand(), configPath)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	for _, want := range []string{"Configuration valid!", "Ignore policy: 1 method(s)", "1. logfile", logPath} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "invalid.yaml", "output: xml\n")

	if _, _, err := run(t, NewValidateCommand(), configPath); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	if _, _, err := run(t, NewValidateCommand(), "/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
