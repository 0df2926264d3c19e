package usecase

import (
	"strings"
	"unicode"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

// MatchRules evaluates the rule table against the question in priority
// order. Rules are independent; each contributes its own matches and
// none suppresses another. No firing rule is not an error.
func MatchRules(question string, rules domain.RuleSet, corpus *domain.Corpus) []domain.RuleMatch {
	normalized := normalizeQuestion(question)
	if normalized == "" || corpus == nil || corpus.Len() == 0 {
		return nil
	}

	matches := make([]domain.RuleMatch, 0, 2)
	for _, rule := range rules.Rules {
		if !ruleFires(normalized, rule) {
			continue
		}
		matches = append(matches, lookupTargets(rule, corpus)...)
	}
	return matches
}

func ruleFires(normalizedQuestion string, rule domain.Rule) bool {
	for _, trigger := range rule.Triggers {
		trigger = normalizeQuestion(trigger)
		if trigger != "" && strings.Contains(normalizedQuestion, trigger) {
			return true
		}
	}
	return false
}

// lookupTargets scans the corpus in order and takes the first Table
// records satisfying the rule's source/title predicate. Appendix titles
// are short and dense, so a direct substring lookup beats similarity
// ranking for this content class.
func lookupTargets(rule domain.Rule, corpus *domain.Corpus) []domain.RuleMatch {
	maxMatches := rule.MaxMatches
	if maxMatches <= 0 {
		maxMatches = 1
	}

	out := make([]domain.RuleMatch, 0, maxMatches)
	for _, record := range corpus.Records() {
		if record.Kind != domain.KindTable {
			continue
		}
		if rule.SourceContains != "" && !strings.Contains(record.SourceName, rule.SourceContains) {
			continue
		}
		if rule.TitleContains != "" && !strings.Contains(record.Title, rule.TitleContains) {
			continue
		}
		out = append(out, domain.RuleMatch{
			Label:    rule.Label,
			Position: record.Position,
			Record:   record,
		})
		if len(out) >= maxMatches {
			break
		}
	}
	return out
}

// normalizeQuestion lowercases and strips all whitespace. Korean
// compounds are spaced inconsistently ("측정 대상물질" vs "측정대상물질"),
// so substring triggers must not depend on spacing.
func normalizeQuestion(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
