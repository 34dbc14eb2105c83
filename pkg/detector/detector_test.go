package detector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

func TestDetector_DetectFromLines_Logcat(t *testing.T) {
	lines := []string{
		"01-15 10:30:00.123 I/Unity( 1234): Player spawned",
		"01-15 10:30:00.456 W/Unity( 1234): Texture missing",
		"01-15 10:30:01.000 E/AndroidRuntime( 999): FATAL EXCEPTION",
	}

	result := New().DetectFromLines(lines)

	if !result.HasMatch() {
		t.Fatal("Expected to detect a format")
	}
	best := result.BestMatch()
	if best.Format.Kind != logentry.SourceDeviceLogcat {
		t.Errorf("Expected logcat, got %s", best.Format.Name)
	}
	if best.Confidence != 1.0 {
		t.Errorf("Expected 100%% confidence, got %.1f%%", best.Confidence*100)
	}
	if best.ParsedTime.Month() != 1 || best.ParsedTime.Day() != 15 {
		t.Errorf("ParsedTime = %v", best.ParsedTime)
	}
}

func TestDetector_DetectFromLines_LogFile(t *testing.T) {
	lines := []string{
		"[Log] 10:00:00.000|1 Initialize engine",
		"[Warning] 10:00:00.500|2 Shader fallback",
		"Shader:Compile(String)",
		"[Error] 10:00:01.000|3 Missing reference",
	}

	result := New().DetectFromLines(lines)

	kind, ok := result.Kind()
	if !ok || kind != logentry.SourceLogFile {
		t.Fatalf("Kind() = %v, %v", kind, ok)
	}
	best := result.BestMatch()
	if best.MatchCount != 3 {
		t.Errorf("Expected 3 matches, got %d", best.MatchCount)
	}
	if result.ParsedLines != 3 || result.SampledLines != 4 {
		t.Errorf("ParsedLines=%d SampledLines=%d", result.ParsedLines, result.SampledLines)
	}
}

func TestDetector_DetectFromLines_NoMatch(t *testing.T) {
	result := New().DetectFromLines([]string{"hello", "world"})

	if result.HasMatch() {
		t.Error("Expected no match")
	}
	if result.BestMatch() != nil {
		t.Error("BestMatch() should be nil")
	}
	if _, ok := result.Kind(); ok {
		t.Error("Kind() should report false")
	}
}

func TestDetector_DetectFromLines_Empty(t *testing.T) {
	result := New().DetectFromLines(nil)
	if result.SampledLines != 0 || result.HasMatch() {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestDetector_WithFormats(t *testing.T) {
	d := New(WithFormats(FormatFor(logentry.SourceLogFile)))
	result := d.DetectFromLines([]string{"01-15 10:30:00.123 I/Unity( 1234): x"})

	if result.HasMatch() {
		t.Error("logcat line should not match log-file-only detector")
	}
}

func TestDetector_DetectFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "device.txt")
	content := "01-15 10:30:00.123 I/Unity( 1234): a\n\n01-15 10:30:00.124 D/Unity( 1234): b\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New(WithSampleSize(1)).DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile() error = %v", err)
	}
	if result.SampledLines != 1 {
		t.Errorf("SampledLines = %d, want 1", result.SampledLines)
	}
	if !result.HasMatch() {
		t.Error("Expected a match")
	}
}

func TestDetector_DetectFromFile_Missing(t *testing.T) {
	_, err := New().DetectFromFile(context.Background(), "/nonexistent/file.log")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}
