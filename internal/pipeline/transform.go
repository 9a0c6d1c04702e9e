package pipeline

import "strings"

// LogEntry records one line rewritten by a line rule.
type LogEntry struct {
	LineNumber  int    `json:"lineNumber"` // 1-based position in the input buffer
	Original    string `json:"original"`
	Transformed string `json:"transformed"`
	Description string `json:"description"`
}

// CommandTransformer defines the contract for rewriting command lines into
// canonical Markdown.
type CommandTransformer interface {
	Transform(buffer string) (string, []LogEntry)
}

// Transformer applies the ordered command rules to a text buffer.
// The rule tables are fixed at construction, so a Transformer is safe for
// concurrent use.
type Transformer struct {
	lineRules   []Rule
	inlineRules []Rule
}

// NewTransformer creates a Transformer with the built-in rules. Extra line
// rules are tried after every built-in line rule, in the order given; extra
// rules with ScopeInline run after the built-in inline rules.
func NewTransformer(extra ...Rule) *Transformer {
	t := &Transformer{
		lineRules:   DefaultLineRules(),
		inlineRules: DefaultInlineRules(),
	}
	for _, r := range extra {
		if r.Scope == ScopeInline {
			t.inlineRules = append(t.inlineRules, r)
			continue
		}
		t.lineRules = append(t.lineRules, r)
	}
	return t
}

// Rules returns a copy of the rule tables, line rules first.
func (t *Transformer) Rules() []Rule {
	rules := make([]Rule, 0, len(t.lineRules)+len(t.inlineRules))
	rules = append(rules, t.lineRules...)
	return append(rules, t.inlineRules...)
}

// Transform rewrites every command line in buffer and returns the result
// together with one log entry per rewritten line.
//
// Lines are processed independently: blank and already-canonical lines are
// kept, otherwise the first matching line rule replaces the line. Inline
// rules then run over the reassembled buffer, canonical lines included, and
// are not logged. Output is never fed back into the rules.
func (t *Transformer) Transform(buffer string) (string, []LogEntry) {
	if isBlankLine(buffer) {
		return buffer, nil
	}

	lines := strings.Split(buffer, "\n")
	var log []LogEntry

	for i, line := range lines {
		if isBlankLine(line) || IsCanonical(line) {
			continue
		}
		for _, rule := range t.lineRules {
			out, ok := rule.Apply(line)
			if !ok {
				continue
			}
			lines[i] = out
			log = append(log, LogEntry{
				LineNumber:  i + 1,
				Original:    line,
				Transformed: out,
				Description: rule.Description,
			})
			break
		}
	}

	result := strings.Join(lines, "\n")
	for _, rule := range t.inlineRules {
		result, _ = rule.Apply(result)
	}
	return result, log
}
