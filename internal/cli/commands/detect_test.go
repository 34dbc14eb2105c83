package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/logsieve/pkg/detector"
)

func TestGenerateStarterConfig(t *testing.T) {
	cfg := generateStarterConfig("/var/log/game/Player.log", "logfile")

	for _, check := range []string{
		"sources:",
		"/var/log/game/Player.log",
		"kind: logfile",
		"output: text",
		"# ignore_policy:",
		"# webhooks:",
	} {
		if !strings.Contains(cfg, check) {
			t.Errorf("Config missing %q", check)
		}
	}
}

func TestRunDetect_LogFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Player.log", playerLog)

	out, _, err := run(t, NewDetectCommand(), path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	for _, want := range []string{"Detected kind: logfile", "kind: logfile", "Lines sampled: 8"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDetect_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "device.txt", deviceLog)

	out, _, err := run(t, NewDetectCommand(), "-o", "json", path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var parsed JSONOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if parsed.Kind != "logcat" || len(parsed.Matches) != 1 || parsed.Matches[0].MatchCount != 2 {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestRunDetect_Forwarded(t *testing.T) {
	b, err := detector.ForwardedRecord{SeverityCode: detector.CodeLog, Message: "hi"}.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "stream.bin")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, NewDetectCommand(), path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "Detected kind: forwarded") {
		t.Errorf("output = %s", out)
	}
}

func TestRunDetect_NoMatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", "nothing to see\n")

	out, _, err := run(t, NewDetectCommand(), path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "No known log format detected.") {
		t.Errorf("output = %s", out)
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	if _, _, err := run(t, NewDetectCommand(), "/nonexistent/file.log"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunDetect_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Player.log", playerLog)
	configPath := filepath.Join(dir, "logsieve.yaml")

	if _, _, err := run(t, NewDetectCommand(), "-w", configPath, path); err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "kind: logfile") {
		t.Errorf("config = %s", data)
	}

	// Existing files are never overwritten
	if _, _, err := run(t, NewDetectCommand(), "-w", configPath, path); err == nil {
		t.Error("Expected error when config exists")
	}
}

func TestRunDetect_WriteConfigNoMatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "nothing\n")

	if _, _, err := run(t, NewDetectCommand(), "-w", filepath.Join(dir, "out.yaml"), path); err == nil {
		t.Error("Expected error when nothing was detected")
	}
}
