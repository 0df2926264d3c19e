package domain

import (
	"errors"
	"fmt"
)

// Rule maps a recognized question intent to one authoritative appendix.
// Triggers are matched as substrings of the normalized question; the
// target is the first Table-kind record whose source name and title
// contain the given fragments.
type Rule struct {
	Label          string   `yaml:"label" json:"label"`
	Triggers       []string `yaml:"triggers" json:"triggers"`
	SourceContains string   `yaml:"source_contains" json:"source_contains"`
	TitleContains  string   `yaml:"title_contains" json:"title_contains"`
	MaxMatches     int      `yaml:"max_matches,omitempty" json:"max_matches,omitempty"`
}

// RuleSet is an ordered table; evaluation order is priority order.
type RuleSet struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

type RuleMatch struct {
	Label    string
	Position int
	Record   DocumentRecord
}

func (r Rule) Validate() error {
	if r.Label == "" {
		return WrapError(ErrInvalidInput, "validate rule", errors.New("empty label"))
	}
	if len(r.Triggers) == 0 {
		return WrapError(ErrInvalidInput, "validate rule", fmt.Errorf("rule %q has no triggers", r.Label))
	}
	for _, trigger := range r.Triggers {
		if trigger == "" {
			return WrapError(ErrInvalidInput, "validate rule", fmt.Errorf("rule %q has an empty trigger", r.Label))
		}
	}
	if r.SourceContains == "" && r.TitleContains == "" {
		return WrapError(ErrInvalidInput, "validate rule", fmt.Errorf("rule %q has no target predicate", r.Label))
	}
	return nil
}

func (s RuleSet) Validate() error {
	seen := make(map[string]struct{}, len(s.Rules))
	for _, rule := range s.Rules {
		if err := rule.Validate(); err != nil {
			return err
		}
		if _, dup := seen[rule.Label]; dup {
			return WrapError(ErrInvalidInput, "validate rules", fmt.Errorf("duplicate rule label %q", rule.Label))
		}
		seen[rule.Label] = struct{}{}
	}
	return nil
}
