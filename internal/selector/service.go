package selector

import (
	"fmt"
	"presetd/internal/models"
	"presetd/internal/providers"
	"presetd/internal/structures"
	"time"
)

type ServiceInterface interface {
	Suggest(metadata models.ImageMetadata, presets []models.Preset) Suggestion
	Apply(metadata models.ImageMetadata, presets []models.Preset, onMatch func(presetID string)) Suggestion
	Location() *time.Location
}

// Service runs selections with the configured zone and rule table and reports
// them to the log and metrics.
type Service struct {
	loc     *time.Location
	rules   []Rule
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*Service, error) {
	loc := time.Local
	if tz := conf.Selector.Timezone; tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load selector timezone %q: %w", tz, err)
		}
		loc = l
	}
	return &Service{
		loc:     loc,
		rules:   DefaultRules(),
		logger:  logger,
		metrics: metrics,
	}, nil
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Suggest(metadata models.ImageMetadata, presets []models.Preset) Suggestion {
	return s.run(New(metadata, presets, WithRules(s.rules), WithLocation(s.loc)), metadata)
}

// Apply is Suggest that also hands the chosen preset id to onMatch.
func (s *Service) Apply(metadata models.ImageMetadata, presets []models.Preset, onMatch func(presetID string)) Suggestion {
	sel := New(metadata, presets, WithRules(s.rules), WithLocation(s.loc), WithOnMatch(onMatch))
	sel.AutoApplyBestMatch()
	return s.run(sel, metadata)
}

func (s *Service) run(sel *AutoPresetSelector, metadata models.ImageMetadata) Suggestion {
	if !sel.Facts().HasHour {
		s.logger.Debugf(providers.TypeSelector, "Unparseable timestamp %q, hour rules disabled", metadata.Timestamp)
	}

	suggestion := sel.Explain()
	if suggestion.Preset == nil {
		s.logger.Debugf(providers.TypeSelector, "No preset for location %q, %d rules held", metadata.Location, len(suggestion.MatchedRules))
		return suggestion
	}

	s.metrics.IncSelectorMatch(suggestion.RuleID)
	s.logger.Infof(providers.TypeSelector, "Rule %s picked preset %s (%.0f%%)", suggestion.RuleID, suggestion.Preset.ID, suggestion.Confidence)
	return suggestion
}
