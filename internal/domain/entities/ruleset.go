package entities

import (
	"fmt"
	"strings"
	"unicode"
)

// DedupPolicy controls which lines take part in deduplication.
type DedupPolicy string

const (
	// DedupUniform deduplicates every line, blank and comment lines included.
	DedupUniform DedupPolicy = "uniform"
	// DedupKeepGroups exempts blank and comment lines so that each merged
	// template keeps its section headers and separators.
	DedupKeepGroups DedupPolicy = "keep-groups"
)

// ParseDedupPolicy converts a configuration value into a DedupPolicy.
// An empty value selects DedupUniform.
func ParseDedupPolicy(value string) (DedupPolicy, error) {
	switch DedupPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", DedupUniform:
		return DedupUniform, nil
	case DedupKeepGroups:
		return DedupKeepGroups, nil
	default:
		return "", fmt.Errorf("unknown dedup policy %q (expected %q or %q)", value, DedupUniform, DedupKeepGroups)
	}
}

// NormalizeLine trims trailing whitespace and keeps everything else.
func NormalizeLine(line string) string {
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

// RuleSet accumulates output lines in first-seen order without duplicates.
type RuleSet struct {
	policy DedupPolicy
	header []string
	lines  []string
	seen   map[string]struct{}
	merged []string
}

// NewRuleSet creates an empty RuleSet.
func NewRuleSet(policy DedupPolicy) *RuleSet {
	if policy == "" {
		policy = DedupUniform
	}
	return &RuleSet{
		policy: policy,
		seen:   make(map[string]struct{}),
	}
}

// Append adds lines that have not been seen before and returns how many were added.
func (r *RuleSet) Append(lines []string) int {
	added := 0
	for _, raw := range lines {
		line := NormalizeLine(raw)
		if r.exempt(line) {
			r.lines = append(r.lines, line)
			added++
			continue
		}
		if _, dup := r.seen[line]; dup {
			continue
		}
		r.seen[line] = struct{}{}
		r.lines = append(r.lines, line)
		added++
	}
	return added
}

// Merge appends the lines of a named template and records its label.
func (r *RuleSet) Merge(label string, lines []string) int {
	r.merged = append(r.merged, label)
	return r.Append(lines)
}

func (r *RuleSet) exempt(line string) bool {
	if r.policy != DedupKeepGroups {
		return false
	}
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// SetHeader sets lines written before the rules. Header lines never take part
// in deduplication.
func (r *RuleSet) SetHeader(lines ...string) {
	r.header = append([]string(nil), lines...)
}

// Lines returns the header followed by the accumulated rules.
func (r *RuleSet) Lines() []string {
	out := make([]string, 0, len(r.header)+len(r.lines))
	out = append(out, r.header...)
	return append(out, r.lines...)
}

// Merged returns the labels passed to Merge, in order.
func (r *RuleSet) Merged() []string {
	return append([]string(nil), r.merged...)
}

// Policy returns the dedup policy in use.
func (r *RuleSet) Policy() DedupPolicy {
	return r.policy
}

// Len returns the number of rule lines, header excluded.
func (r *RuleSet) Len() int {
	return len(r.lines)
}

// String serializes the RuleSet, one line per "\n".
func (r *RuleSet) String() string {
	lines := r.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
