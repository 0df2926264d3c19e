// Package ruleset loads the declarative keyword-rule table. Rules live
// in data, not in retrieval control flow, so they can be extended and
// tested independently.
package ruleset

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// Load reads the rule table from path, or the embedded defaults when
// path is empty.
func Load(path string) (domain.RuleSet, error) {
	payload := defaultRulesYAML
	if path != "" {
		fileBytes, err := os.ReadFile(path)
		if err != nil {
			return domain.RuleSet{}, fmt.Errorf("read rules file: %w", err)
		}
		payload = fileBytes
	}
	return parse(payload)
}

func Default() (domain.RuleSet, error) {
	return parse(defaultRulesYAML)
}

func parse(payload []byte) (domain.RuleSet, error) {
	var rules domain.RuleSet
	if err := yaml.Unmarshal(payload, &rules); err != nil {
		return domain.RuleSet{}, fmt.Errorf("parse rules yaml: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return domain.RuleSet{}, err
	}
	return rules, nil
}
