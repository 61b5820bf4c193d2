package schema

import (
	"errors"
	"sync"

	"github.com/runestone-text/runestone/internal/model"
)

// ErrEmptyKey is returned when registering a rule without an attribute key.
var ErrEmptyKey = errors.New("rule has empty attribute key")

// Rule describes where one attribute key may be applied.
type Rule struct {
	// Key is the attribute key the rule governs.
	Key string `toml:"key" yaml:"key"`

	// Excludes lists attribute keys the governed attribute cannot coexist
	// with on the same run.
	Excludes []string `toml:"excludes" yaml:"excludes"`

	// Disallowed bans the attribute outright.
	Disallowed bool `toml:"disallowed" yaml:"disallowed"`
}

// Schema is a registry of attribute rules. All query methods are pure reads
// of the document; the rule set itself may be swapped concurrently (hot
// reload), so access is guarded.
type Schema struct {
	mu           sync.RWMutex
	rules        map[string]Rule
	allowUnknown bool
}

// New creates an empty schema that allows attributes without rules.
func New() *Schema {
	return &Schema{
		rules:        make(map[string]Rule),
		allowUnknown: true,
	}
}

// Default returns a schema with the standard text rules: links may not be
// applied to code runs, and code may not be applied to linked runs.
func Default() *Schema {
	s := New()
	_ = s.Register(Rule{Key: "linkHref", Excludes: []string{"code"}})
	_ = s.Register(Rule{Key: "linkMetadata", Excludes: []string{"code"}})
	_ = s.Register(Rule{Key: "code", Excludes: []string{"linkHref"}})
	return s
}

// Register adds or replaces the rule for a key.
func (s *Schema) Register(rule Rule) error {
	if rule.Key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[rule.Key] = rule
	return nil
}

// RuleFor returns the rule registered for key.
func (s *Schema) RuleFor(key string) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[key]
	return r, ok
}

// Rules returns all registered rules.
func (s *Schema) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	return out
}

// SetDefaultPolicy controls whether attribute keys without a registered
// rule are allowed (the default) or denied.
func (s *Schema) SetDefaultPolicy(allowUnknown bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowUnknown = allowUnknown
}

// ReplaceRules swaps the entire rule set atomically. Readers observe either
// the old set or the new one, never a mix.
func (s *Schema) ReplaceRules(rules []Rule, allowUnknown bool) {
	next := make(map[string]Rule, len(rules))
	for _, r := range rules {
		if r.Key != "" {
			next[r.Key] = r
		}
	}
	s.mu.Lock()
	s.rules = next
	s.allowUnknown = allowUnknown
	s.mu.Unlock()
}

// AllowedOnRun returns true if the attribute may be applied to the run.
func (s *Schema) AllowedOnRun(run *model.TextRun, key string) bool {
	s.mu.RLock()
	rule, ok := s.rules[key]
	allowUnknown := s.allowUnknown
	s.mu.RUnlock()

	if !ok {
		return allowUnknown
	}
	if rule.Disallowed {
		return false
	}
	for _, excluded := range rule.Excludes {
		if run.HasAttribute(excluded) {
			return false
		}
	}
	return true
}

// IsAttributeAllowed returns true if the attribute may be applied at the
// position. At a run boundary the run before the position is consulted,
// matching the typing-attribute convention; at document start the run after
// is used. An empty document permits anything not banned outright.
func (s *Schema) IsAttributeAllowed(doc *model.Document, pos model.Position, key string) bool {
	if doc.RunCount() == 0 {
		rule, ok := s.RuleFor(key)
		if !ok {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.allowUnknown
		}
		return !rule.Disallowed
	}
	if err := doc.ValidatePosition(pos); err != nil {
		return false
	}
	pos = doc.NormalizePosition(pos)
	idx := pos.Run
	if pos.Offset == 0 && idx > 0 {
		idx--
	}
	if idx >= doc.RunCount() {
		idx = doc.RunCount() - 1
	}
	return s.AllowedOnRun(doc.Run(idx), key)
}

// ValidRanges returns the maximal sub-ranges of the input where the
// attribute may be applied. Document order is preserved and the result
// never contains overlapping or collapsed ranges. Deterministic for a
// given document state.
func (s *Schema) ValidRanges(doc *model.Document, ranges []model.Range, key string) []model.Range {
	var out []model.Range
	for _, r := range ranges {
		if err := doc.ValidateRange(r); err != nil {
			continue
		}
		r = doc.NormalizeRange(r)
		if r.IsCollapsed() {
			continue
		}
		out = append(out, s.validSubRanges(doc, r, key)...)
	}
	return out
}

// validSubRanges walks the runs covered by r, emitting one range per
// maximal allowed span.
func (s *Schema) validSubRanges(doc *model.Document, r model.Range, key string) []model.Range {
	var out []model.Range
	var open bool
	var start model.Position

	endRun := r.End.Run
	if r.End.Offset == 0 {
		endRun--
	}
	for i := r.Start.Run; i <= endRun && i < doc.RunCount(); i++ {
		segStart := model.NewPosition(i, 0)
		if i == r.Start.Run {
			segStart = r.Start
		}
		segEnd := model.NewPosition(i, doc.Run(i).Len())
		if i == r.End.Run && r.End.Offset < segEnd.Offset {
			segEnd = r.End
		}
		if segStart.Compare(segEnd) >= 0 {
			continue
		}
		if s.AllowedOnRun(doc.Run(i), key) {
			if !open {
				start = segStart
				open = true
			}
			continue
		}
		if open {
			out = append(out, model.NewRange(start, segStart))
			open = false
		}
	}
	if open {
		out = append(out, model.NewRange(start, r.End))
	}
	return out
}

// CheckAttributeInSelection returns true if the attribute may be applied
// somewhere within the selection.
func (s *Schema) CheckAttributeInSelection(doc *model.Document, sel model.Selection, key string) bool {
	if sel.IsCollapsed() {
		return s.IsAttributeAllowed(doc, sel.FirstPosition(), key)
	}
	return len(s.ValidRanges(doc, sel.Ranges(), key)) > 0
}
