package stacktrace

import (
	"fmt"
	"regexp"
)

// Named capture groups understood by NewFrameFromMatch.
const (
	GroupClass  = "className"
	GroupMethod = "methodName"
	GroupFile   = "filePath"
	GroupLine   = "lineNumber"
)

// Grammar is a named stack-text pattern. Patterns are RE2, so matching is
// linear in the input length; argument lists allow one level of nesting.
type Grammar struct {
	Name       string
	Pattern    *regexp.Regexp
	PatternStr string
}

const (
	classPattern  = "[\\w.`<>+$\\[\\]]+"
	methodPattern = "[\\w<>$`]+"
	argsPattern   = `\((?:[^()\n]|\([^()\n]*\))*\)`
)

var (
	// EngineGrammar matches "Class.Method (args) (at path:line)" and
	// "Class.Method (args) (path:line)". The class/method separator may also be ':'.
	EngineGrammar = newGrammar("engine",
		`(?m)(?P<className>`+classPattern+`)[.:](?P<methodName>`+methodPattern+`)[ \t]*`+argsPattern+
			`[ \t]*\((?:at[ \t]+)?(?P<filePath>(?:[A-Za-z]:)?[^:()\n]+):(?P<lineNumber>\d+)\)`)

	// LogFileGrammar matches "Class:Method(args)" lines with no location.
	LogFileGrammar = newGrammar("logfile",
		`(?m)(?P<className>`+classPattern+`):(?P<methodName>`+methodPattern+`)[ \t]*`+argsPattern)

	// CompileDiagnosticGrammar matches the "path(line,col):" prefix of compiler output.
	CompileDiagnosticGrammar = newGrammar("compile-diagnostic",
		`(?P<filePath>(?:[A-Za-z]:)?[^\s:()]+)\((?P<lineNumber>\d+),\d+[^)\n]*\):`)
)

// Builtin returns the predefined grammar with the given name.
func Builtin(name string) (*Grammar, bool) {
	for _, g := range []*Grammar{EngineGrammar, LogFileGrammar, CompileDiagnosticGrammar} {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// CompileGrammar builds a grammar from a user pattern. The pattern must name
// at least one of the className, methodName, filePath or lineNumber groups.
func CompileGrammar(name, pattern string) (*Grammar, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	for _, group := range []string{GroupClass, GroupMethod, GroupFile, GroupLine} {
		if re.SubexpIndex(group) >= 0 {
			return &Grammar{Name: name, Pattern: re, PatternStr: pattern}, nil
		}
	}
	return nil, fmt.Errorf("pattern names none of the groups %s, %s, %s, %s",
		GroupClass, GroupMethod, GroupFile, GroupLine)
}

func newGrammar(name, pattern string) *Grammar {
	return &Grammar{
		Name:       name,
		Pattern:    regexp.MustCompile(pattern),
		PatternStr: pattern,
	}
}

// group returns the text of a named group and whether it matched at all.
func (g *Grammar) group(text string, loc []int, name string) (string, bool) {
	i := g.Pattern.SubexpIndex(name)
	if i < 0 || 2*i+1 >= len(loc) || loc[2*i] < 0 {
		return "", false
	}
	return text[loc[2*i]:loc[2*i+1]], true
}
