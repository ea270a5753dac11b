package statement

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/finbook/finbook/internal/domain"
)

// Rule maps a description keyword to a category. Rules are ordered; the
// first case-insensitive substring match wins.
type Rule struct {
	Keyword    string `yaml:"keyword"`
	CategoryID string `yaml:"category"`
}

// RuleSet is an ordered list of categorization rules.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a YAML rule file.
func LoadRules(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rule file: %w", err)
	}
	defer f.Close()

	return ParseRules(f)
}

// ParseRules decodes a YAML rule document.
func ParseRules(r io.Reader) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.NewDecoder(r).Decode(&rs); err != nil {
		return nil, fmt.Errorf("decoding rules: %w", err)
	}
	return &rs, nil
}

// Categorize returns the category for a description, or "other" when no
// rule matches.
func (rs *RuleSet) Categorize(description string) string {
	if rs == nil {
		return domain.DefaultCategoryID
	}

	lower := strings.ToLower(description)
	for _, rule := range rs.Rules {
		if rule.Keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(rule.Keyword)) {
			return rule.CategoryID
		}
	}

	return domain.DefaultCategoryID
}
