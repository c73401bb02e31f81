package selector

import (
	"presetd/internal/models"
	"slices"
	"strings"
	"time"
)

// AutoPresetSelector picks a preset for one image out of a preset collection.
// It is pure: the same metadata, rules, presets and location always give the
// same answers.
type AutoPresetSelector struct {
	presets []models.Preset
	rules   []Rule
	facts   Facts
	onMatch func(presetID string)
}

type Option func(*selectorOptions)

type selectorOptions struct {
	rules   []Rule
	loc     *time.Location
	onMatch func(presetID string)
}

func WithRules(rules []Rule) Option {
	return func(o *selectorOptions) { o.rules = rules }
}

// WithLocation sets the zone capture hours are read in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *selectorOptions) { o.loc = loc }
}

// WithOnMatch registers the callback AutoApplyBestMatch invokes on success.
func WithOnMatch(fn func(presetID string)) Option {
	return func(o *selectorOptions) { o.onMatch = fn }
}

func New(metadata models.ImageMetadata, presets []models.Preset, opts ...Option) *AutoPresetSelector {
	o := selectorOptions{loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rules == nil {
		o.rules = DefaultRules()
	}
	if o.loc == nil {
		o.loc = time.Local
	}

	return &AutoPresetSelector{
		presets: presets,
		rules:   o.rules,
		facts:   NewFacts(metadata, o.loc),
		onMatch: o.onMatch,
	}
}

func (s *AutoPresetSelector) Facts() Facts {
	return s.facts
}

// MatchingRules returns the rules whose conditions hold, highest priority
// first. Rules of equal priority keep their table order.
func (s *AutoPresetSelector) MatchingRules() []Rule {
	matched := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.Matches(s.facts) {
			matched = append(matched, r)
		}
	}
	slices.SortStableFunc(matched, func(a, b Rule) int {
		return b.Priority - a.Priority
	})
	return matched
}

func (s *AutoPresetSelector) HasMatches() bool {
	for _, r := range s.rules {
		if r.Matches(s.facts) {
			return true
		}
	}
	return false
}

// FindBestMatch walks the matching rules by priority and returns the first
// preset one of them resolves to. A rule that resolves to nothing hands over
// to the next one.
func (s *AutoPresetSelector) FindBestMatch() (models.Preset, bool) {
	p, _, ok := s.bestMatch()
	return p, ok
}

func (s *AutoPresetSelector) bestMatch() (models.Preset, Rule, bool) {
	for _, r := range s.MatchingRules() {
		if p, ok := s.resolve(r); ok {
			return p, r, true
		}
	}
	return models.Preset{}, Rule{}, false
}

// AutoApplyBestMatch is FindBestMatch followed by the OnMatch callback when a
// preset was found.
func (s *AutoPresetSelector) AutoApplyBestMatch() (models.Preset, bool) {
	p, ok := s.FindBestMatch()
	if !ok {
		return models.Preset{}, false
	}
	if s.onMatch != nil {
		s.onMatch(p.ID)
	}
	return p, true
}

// PresetConfidence scores p by the highest-priority rule that holds for the
// image and textually matches p, scaled to a percentage. It is 0 when no such
// rule exists.
func (s *AutoPresetSelector) PresetConfidence(p models.Preset) float64 {
	best := 0
	found := false
	for _, r := range s.rules {
		if !r.Matches(s.facts) || !textMatch(r, p) {
			continue
		}
		if !found || r.Priority > best {
			best = r.Priority
			found = true
		}
	}
	if !found {
		return 0
	}
	return min(max(float64(best)/10*100, 0), 100)
}

func (s *AutoPresetSelector) resolve(r Rule) (models.Preset, bool) {
	for _, p := range s.presets {
		if textMatch(r, p) {
			return p, true
		}
	}
	return models.Preset{}, false
}

func textMatch(r Rule, p models.Preset) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(r.Name)) ||
		strings.Contains(strings.ToLower(p.Description), strings.ToLower(r.Description))
}

// Suggestion is the outcome of one selection, suitable for JSON responses.
type Suggestion struct {
	Preset       *models.Preset `json:"preset,omitempty"`
	RuleID       string         `json:"ruleId,omitempty"`
	Confidence   float64        `json:"confidence"`
	MatchedRules []string       `json:"matchedRules"`
}

// Explain reports the best match, the rule it came from, its confidence and
// every rule that held.
func (s *AutoPresetSelector) Explain() Suggestion {
	matched := s.MatchingRules()
	ids := make([]string, len(matched))
	for i, r := range matched {
		ids[i] = r.ID
	}

	out := Suggestion{MatchedRules: ids}
	if p, r, ok := s.bestMatch(); ok {
		out.Preset = &p
		out.RuleID = r.ID
		out.Confidence = s.PresetConfidence(p)
	}
	return out
}
