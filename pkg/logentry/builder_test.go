package logentry

import (
	"testing"

	"github.com/ccollicutt/logsieve/pkg/stacktrace"
)

func TestFromText_EngineStack(t *testing.T) {
	stack := "UnityEngine.Debug:Log (object)\nEnemy.Hit (int dmg) (at Assets/Enemy.cs:10)"

	e := FromText("hit", stack, SeverityInfo)

	if e.Message != "hit" {
		t.Errorf("Message = %q", e.Message)
	}
	if e.StackText != stack {
		t.Errorf("StackText = %q, want raw stack", e.StackText)
	}
	if len(e.Frames) != 1 || e.Frames[0].ClassName != "Enemy" {
		t.Fatalf("Frames = %+v", e.Frames)
	}
	if e.ExtraInfo != "UnityEngine.Debug:Log (object)" {
		t.Errorf("ExtraInfo = %q", e.ExtraInfo)
	}
}

func TestFromText_CompileDiagnostic(t *testing.T) {
	e := FromText("Assets/Foo.cs(3,14): error CS1002: ; expected", "", SeverityError)

	if e.Message != "error CS1002: ; expected" {
		t.Errorf("Message = %q", e.Message)
	}
	if len(e.Frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(e.Frames))
	}
	if e.StackText != e.Frames[0].FormattedText {
		t.Errorf("StackText = %q, want %q", e.StackText, e.Frames[0].FormattedText)
	}
	if e.Frames[0].LineNumber != 3 {
		t.Errorf("LineNumber = %d", e.Frames[0].LineNumber)
	}
}

func TestFromText_NoStackNoDiagnostic(t *testing.T) {
	e := FromText("just a message", "", SeverityWarning)

	if e.Message != "just a message" || e.StackText != "" || len(e.Frames) != 0 {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestFromText_WhitespaceStackCollapses(t *testing.T) {
	a := FromText("just a message", " \n\t", SeverityWarning)
	b := FromText("just a message", "", SeverityWarning)

	if a.StackText != "" {
		t.Errorf("StackText = %q, want empty", a.StackText)
	}
	if !a.Equal(b) || a.DedupKey() != b.DedupKey() {
		t.Errorf("entries differ: %q vs %q", a.DedupKey(), b.DedupKey())
	}
}

func TestFromText_UnmatchedStack(t *testing.T) {
	e := FromText("m", "  garbage text  ", SeverityError)

	if len(e.Frames) != 0 {
		t.Errorf("got %d frames, want 0", len(e.Frames))
	}
	if e.ExtraInfo != "garbage text" {
		t.Errorf("ExtraInfo = %q", e.ExtraInfo)
	}
}

func TestBuilder_CustomGrammarOrder(t *testing.T) {
	b := NewBuilder(stacktrace.NewParser(stacktrace.WithGrammars(stacktrace.LogFileGrammar)))

	e := b.FromText("m", "Shop:Buy(Item)", SeverityInfo)

	if len(e.Frames) != 1 || e.Frames[0].FormattedText != "Shop:Buy" {
		t.Errorf("Frames = %+v", e.Frames)
	}
}

func TestFromCapture(t *testing.T) {
	frames := []stacktrace.Frame{
		stacktrace.NewFrameFromCall(stacktrace.CallFrame{DeclaringType: "A", Method: "One", File: "a.go", Line: 1}),
		stacktrace.NewFrameFromCall(stacktrace.CallFrame{DeclaringType: "B", Method: "Two", File: "b.go", Line: 2}),
	}

	e := FromCapture("msg", "Logger:Info(string)", frames, SeverityInfo)

	want := "Logger:Info(string)\nA:One() (at a.go:1)\nB:Two() (at b.go:2)"
	if e.StackText != want {
		t.Errorf("StackText = %q, want %q", e.StackText, want)
	}
	if e.ExtraInfo != "Logger:Info(string)" {
		t.Errorf("ExtraInfo = %q", e.ExtraInfo)
	}
	if len(e.Frames) != 2 {
		t.Fatalf("got %d frames", len(e.Frames))
	}

	frames[0] = stacktrace.Frame{FormattedText: "mutated"}
	if e.Frames[0].FormattedText == "mutated" {
		t.Error("entry shares the caller's frame slice")
	}
}

func TestFromCapture_NilFrames(t *testing.T) {
	e := FromCapture("msg", "", nil, SeverityWarning)

	if e.StackText != "" || len(e.Frames) != 0 {
		t.Errorf("unexpected entry %+v", e)
	}
}
