package classify

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"fintrack/internal/core"
)

var (
	ErrNoRules         = errors.New("rules file defines no rules")
	ErrUnknownCategory = errors.New("unknown category in rules file")
	ErrEmptyKeywords   = errors.New("rule has no keywords")
)

type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// LoadRules reads an ordered rule list from a YAML file. Categories must
// belong to the closed set and every rule needs at least one keyword.
// Keywords are lower-cased so matching stays case-insensitive regardless
// of how the file is written.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return parseRules(data)
}

func parseRules(data []byte) ([]Rule, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, ErrNoRules
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for i, entry := range rf.Rules {
		cat, ok := core.ParseCategory(entry.Category)
		if !ok {
			return nil, fmt.Errorf("rule %d: %w: %q", i, ErrUnknownCategory, entry.Category)
		}
		if len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): %w", i, cat, ErrEmptyKeywords)
		}
		keywords := make([]string, len(entry.Keywords))
		for j, kw := range entry.Keywords {
			keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
		rules = append(rules, Rule{Category: cat, Keywords: keywords})
	}
	return rules, nil
}
