package stacktrace

import (
	"os"
	"regexp"
	"strings"
	"testing"
)

func sep(p string) string {
	return strings.ReplaceAll(p, "/", string(os.PathSeparator))
}

func TestNewFrameFromMatch_AllGroups(t *testing.T) {
	text := "Player.Update () (at Assets/Scripts/Player.cs:42)"
	loc := EngineGrammar.Pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		t.Fatal("engine grammar did not match")
	}

	f := NewFrameFromMatch(EngineGrammar, text, loc)

	if f.ClassName != "Player" {
		t.Errorf("ClassName = %q, want Player", f.ClassName)
	}
	if f.MethodName != "Update" {
		t.Errorf("MethodName = %q, want Update", f.MethodName)
	}
	if f.LineNumber != 42 {
		t.Errorf("LineNumber = %d, want 42", f.LineNumber)
	}
	want := "Player:Update (at " + sep("Assets/Scripts/Player.cs") + ":42)"
	if f.FormattedText != want {
		t.Errorf("FormattedText = %q, want %q", f.FormattedText, want)
	}
	if f.SourceSnippet != "" {
		t.Errorf("SourceSnippet = %q, want empty", f.SourceSnippet)
	}
}

func TestNewFrameFromMatch_NoLocation(t *testing.T) {
	text := "UnityEngine.Debug:Log(Object)"
	loc := LogFileGrammar.Pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		t.Fatal("log-file grammar did not match")
	}

	f := NewFrameFromMatch(LogFileGrammar, text, loc)

	if f.ClassName != "UnityEngine.Debug" || f.MethodName != "Log" {
		t.Errorf("got %s/%s, want UnityEngine.Debug/Log", f.ClassName, f.MethodName)
	}
	if f.LineNumber != -1 {
		t.Errorf("LineNumber = %d, want -1", f.LineNumber)
	}
	if f.FilePath != "" {
		t.Errorf("FilePath = %q, want empty", f.FilePath)
	}
	if f.FormattedText != "UnityEngine.Debug:Log" {
		t.Errorf("FormattedText = %q", f.FormattedText)
	}
}

func TestNewFrameFromMatch_NoClassOrMethod(t *testing.T) {
	text := `Assets\Editor\Build.cs(17,9): error CS1002`
	loc := CompileDiagnosticGrammar.Pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		t.Fatal("diagnostic grammar did not match")
	}

	f := NewFrameFromMatch(CompileDiagnosticGrammar, text, loc)

	if f.ClassName != UnknownClass || f.MethodName != UnknownMethod {
		t.Errorf("got %s/%s, want sentinels", f.ClassName, f.MethodName)
	}
	want := "at " + sep("Assets/Editor/Build.cs") + ":17"
	if f.FormattedText != want {
		t.Errorf("FormattedText = %q, want %q", f.FormattedText, want)
	}
}

func TestNewFrameFromMatch_UnparsableLine(t *testing.T) {
	g := &Grammar{
		Name:    "test",
		Pattern: regexp.MustCompile(`(?P<className>\w+)\.(?P<methodName>\w+) (?P<filePath>\S+):(?P<lineNumber>\w+)`),
	}
	text := "Foo.Bar file.cs:abc"
	loc := g.Pattern.FindStringSubmatchIndex(text)

	f := NewFrameFromMatch(g, text, loc)

	if f.LineNumber != -1 {
		t.Errorf("LineNumber = %d, want -1", f.LineNumber)
	}
	if f.FormattedText != "Foo:Bar" {
		t.Errorf("FormattedText = %q, want Foo:Bar", f.FormattedText)
	}
}

func TestNewFrameFromMatch_OptionalGroupNotMatched(t *testing.T) {
	g := &Grammar{
		Name:    "optional",
		Pattern: regexp.MustCompile(`(?:(?P<className>\w+)\.)?(?P<methodName>\w+)\(\) (?P<filePath>\S+):(?P<lineNumber>\d+)`),
	}
	text := "Run() main.cs:3"
	loc := g.Pattern.FindStringSubmatchIndex(text)

	f := NewFrameFromMatch(g, text, loc)

	if f.ClassName != UnknownClass {
		t.Errorf("ClassName = %q, want %q", f.ClassName, UnknownClass)
	}
	if f.FormattedText != "at main.cs:3" {
		t.Errorf("FormattedText = %q", f.FormattedText)
	}
}

func TestNewFrameFromCall(t *testing.T) {
	f := NewFrameFromCall(CallFrame{
		DeclaringType: "Game.Spawner",
		Method:        "Spawn",
		ParamTypes:    []string{"Vector3", "int"},
		File:          "Assets/Spawner.cs",
		Line:          88,
	})

	if f.MethodName != "Spawn(Vector3, int)" {
		t.Errorf("MethodName = %q", f.MethodName)
	}
	want := "Game.Spawner:Spawn(Vector3, int) (at " + sep("Assets/Spawner.cs") + ":88)"
	if f.FormattedText != want {
		t.Errorf("FormattedText = %q, want %q", f.FormattedText, want)
	}
}

func TestFrame_EqualIgnoresSnippet(t *testing.T) {
	a := NewFrameFromCall(CallFrame{DeclaringType: "A", Method: "B", File: "a.cs", Line: 1})
	b := a.WithSourceSnippet("var x = 1;")

	if !a.Equal(b) {
		t.Error("frames with different snippets should be equal")
	}
	if a.SourceSnippet != "" {
		t.Error("WithSourceSnippet mutated the receiver")
	}

	c := NewFrameFromCall(CallFrame{DeclaringType: "A", Method: "B", File: "a.cs", Line: 2})
	if a.Equal(c) {
		t.Error("frames at different lines should differ")
	}
}

func TestCallFrame_QualifiedName(t *testing.T) {
	c := CallFrame{DeclaringType: "Log", Method: "Warn", ParamTypes: []string{"string", "object[]"}}
	if got := c.QualifiedName(); got != "Log:Warn(string, object[])" {
		t.Errorf("QualifiedName() = %q", got)
	}
}
