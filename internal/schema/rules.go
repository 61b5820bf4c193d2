package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// RuleSet is the decoded form of a rule file.
type RuleSet struct {
	// DefaultPolicy is "allow" (the default) or "deny" and controls
	// attribute keys without a rule.
	DefaultPolicy string `toml:"default_policy" yaml:"default_policy"`

	// Rules lists the per-attribute rules.
	Rules []Rule `toml:"rules" yaml:"rules"`
}

// AllowUnknown returns the decoded default policy as a boolean.
func (rs *RuleSet) AllowUnknown() bool {
	return rs.DefaultPolicy != "deny"
}

// LoadError reports a rule file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading rules from %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadRules reads a rule file, choosing the format by extension:
// .toml, or .yaml/.yml.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var rs *RuleSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		rs, err = ParseTOML(data)
	case ".yaml", ".yml":
		rs, err = ParseYAML(data)
	default:
		err = fmt.Errorf("unsupported rule file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return rs, nil
}

// ParseTOML decodes a TOML rule file.
func ParseTOML(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := toml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing TOML rules: %w", err)
	}
	return validateRuleSet(&rs)
}

// ParseYAML decodes a YAML rule file.
func ParseYAML(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing YAML rules: %w", err)
	}
	return validateRuleSet(&rs)
}

func validateRuleSet(rs *RuleSet) (*RuleSet, error) {
	switch rs.DefaultPolicy {
	case "", "allow", "deny":
	default:
		return nil, fmt.Errorf("unknown default_policy %q", rs.DefaultPolicy)
	}
	for i, r := range rs.Rules {
		if r.Key == "" {
			return nil, fmt.Errorf("rule %d: %w", i, ErrEmptyKey)
		}
	}
	return rs, nil
}

// Apply installs a rule set on the schema, replacing existing rules.
func (s *Schema) Apply(rs *RuleSet) {
	s.ReplaceRules(rs.Rules, rs.AllowUnknown())
}
