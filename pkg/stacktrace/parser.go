package stacktrace

import "strings"

// Result is the outcome of parsing one stack block.
type Result struct {
	// Grammar is the grammar that matched, or nil.
	Grammar *Grammar

	// Frames are the matches in left-to-right order.
	Frames []Frame

	// ExtraInfo is the text not covered by any match, trimmed.
	ExtraInfo string
}

// Parser selects a grammar for a stack block and extracts its frames.
type Parser struct {
	grammars []*Grammar
}

// Option configures the Parser.
type Option func(*Parser)

// WithGrammars sets the grammar preference order.
func WithGrammars(grammars ...*Grammar) Option {
	return func(p *Parser) {
		if len(grammars) > 0 {
			p.grammars = grammars
		}
	}
}

// NewParser creates a Parser trying the engine grammar, then the log-file grammar.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		grammars: []*Grammar{EngineGrammar, LogFileGrammar},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse parses stack with the default grammar order.
func Parse(stack string) Result {
	return defaultParser.Parse(stack)
}

// Select returns the first grammar that matches stack, or nil.
func (p *Parser) Select(stack string) *Grammar {
	for _, g := range p.grammars {
		if g.Pattern.MatchString(stack) {
			return g
		}
	}
	return nil
}

// Parse extracts every non-overlapping match of the selected grammar.
// Text that no grammar matches ends up, trimmed, in ExtraInfo.
func (p *Parser) Parse(stack string) Result {
	var res Result
	if stack == "" {
		return res
	}

	g := p.Select(stack)
	if g == nil {
		res.ExtraInfo = strings.TrimSpace(stack)
		return res
	}
	res.Grammar = g

	var rest strings.Builder
	prev := 0
	for _, loc := range g.Pattern.FindAllStringSubmatchIndex(stack, -1) {
		res.Frames = append(res.Frames, NewFrameFromMatch(g, stack, loc))
		rest.WriteString(stack[prev:loc[0]])
		prev = loc[1]
	}
	rest.WriteString(stack[prev:])
	res.ExtraInfo = strings.TrimSpace(rest.String())

	return res
}

// ParseDiagnostic looks for a compiler "path(line,col):" location in message.
// On success it returns the frame and message with the location removed.
func ParseDiagnostic(message string) (Frame, string, bool) {
	g := CompileDiagnosticGrammar
	loc := g.Pattern.FindStringSubmatchIndex(message)
	if loc == nil {
		return Frame{}, message, false
	}
	frame := NewFrameFromMatch(g, message, loc)
	rest := strings.TrimSpace(message[:loc[0]] + message[loc[1]:])
	return frame, rest, true
}
