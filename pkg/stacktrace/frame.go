// Package stacktrace turns raw stack text and live call frames into normalized frames.
package stacktrace

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Sentinels used when a grammar cannot resolve the class or method of a frame.
const (
	UnknownClass  = "UnknownClass"
	UnknownMethod = "UnknownMethod"
)

// Frame is one normalized call site. Frames are values; two frames are
// equal when their FormattedText is equal.
type Frame struct {
	ClassName     string `json:"class_name"`
	MethodName    string `json:"method_name"`
	FilePath      string `json:"file_path"`
	LineNumber    int    `json:"line_number"` // -1 if unknown
	FormattedText string `json:"formatted_text"`

	// SourceSnippet is filled on demand by whoever can read the source file.
	SourceSnippet string `json:"source_snippet,omitempty"`
}

// CallFrame is one frame of a live captured call stack.
type CallFrame struct {
	DeclaringType string
	Method        string
	ParamTypes    []string
	File          string
	Line          int
}

// Signature returns the method name with its parameter type list.
func (c CallFrame) Signature() string {
	return c.Method + "(" + strings.Join(c.ParamTypes, ", ") + ")"
}

// QualifiedName returns declaring type, method and parameter types, e.g. "Logger:Log(string)".
func (c CallFrame) QualifiedName() string {
	return c.DeclaringType + ":" + c.Signature()
}

// NewFrameFromMatch builds a frame from one submatch index slice of g.Pattern
// applied to text. A group counts as missing when the grammar does not define
// it or it did not take part in the match.
func NewFrameFromMatch(g *Grammar, text string, loc []int) Frame {
	className, hasClass := g.group(text, loc, GroupClass)
	methodName, hasMethod := g.group(text, loc, GroupMethod)
	filePath, hasFile := g.group(text, loc, GroupFile)
	lineText, _ := g.group(text, loc, GroupLine)

	f := Frame{
		ClassName:  className,
		MethodName: methodName,
		FilePath:   normalizePath(filePath),
		LineNumber: parseLine(lineText),
	}

	switch {
	case !hasClass || !hasMethod:
		if !hasClass {
			f.ClassName = UnknownClass
		}
		if !hasMethod {
			f.MethodName = UnknownMethod
		}
		f.FormattedText = fmt.Sprintf("at %s:%d", f.FilePath, f.LineNumber)
	case !hasFile || f.LineNumber == -1:
		f.FormattedText = f.ClassName + ":" + f.MethodName
	default:
		f.FormattedText = fmt.Sprintf("%s:%s (at %s:%d)", f.ClassName, f.MethodName, f.FilePath, f.LineNumber)
	}

	return f
}

// NewFrameFromCall builds a frame from a live call frame. All fields are
// expected to be present, so the full "class:method (at file:line)" form is used.
func NewFrameFromCall(c CallFrame) Frame {
	f := Frame{
		ClassName:  c.DeclaringType,
		MethodName: c.Signature(),
		FilePath:   normalizePath(c.File),
		LineNumber: c.Line,
	}
	if f.ClassName == "" {
		f.ClassName = UnknownClass
	}
	if c.Method == "" {
		f.MethodName = UnknownMethod
	}
	f.FormattedText = fmt.Sprintf("%s:%s (at %s:%d)", f.ClassName, f.MethodName, f.FilePath, f.LineNumber)
	return f
}

// Equal reports whether both frames render the same text.
func (f Frame) Equal(other Frame) bool {
	return f.FormattedText == other.FormattedText
}

// WithSourceSnippet returns a copy of f carrying the given snippet.
func (f Frame) WithSourceSnippet(snippet string) Frame {
	f.SourceSnippet = snippet
	return f
}

func (f Frame) String() string {
	return f.FormattedText
}

// normalizePath rewrites both slash styles to the host separator.
func normalizePath(p string) string {
	if !strings.ContainsAny(p, `/\`) {
		return p
	}
	sep := string(os.PathSeparator)
	p = strings.ReplaceAll(p, `\`, sep)
	return strings.ReplaceAll(p, "/", sep)
}

func parseLine(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return n
}
