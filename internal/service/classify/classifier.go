package classify

import (
	"strings"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
	"github.com/wczubal1/GreenAgentWitty/pkg/util"
)

// Config holds the keyword sets driving dataset classification. Injected so
// tests can vary them; DefaultConfig matches production grading behavior.
type Config struct {
	WeeklyKeywords   []string
	ShareKeywords    []string
	TreasuryKeywords []string
	MaxKeywords      []string
	YearOverYear     []string
	VolumePhrase     string
}

// DefaultConfig returns the production keyword sets.
func DefaultConfig() Config {
	return Config{
		WeeklyKeywords:   []string{"weekly", "week", "weeklysummary", "weekly summary"},
		ShareKeywords:    []string{"share", "shares", "totalweeklysharequantity", "total weekly share"},
		TreasuryKeywords: []string{"treasury", "benchmark", "dealer customer volume", "maturity", "on-the-run", "off-the-run"},
		MaxKeywords:      []string{"highest", "max", "maximum", "largest"},
		YearOverYear:     []string{"year-over-year", "year over year", "yoy", "prior year", "previous year", "a year earlier"},
		VolumePhrase:     "dealer customer volume",
	}
}

// Classifier decides which dataset family and response shape a request
// concerns. Pure; classification never fails, ambiguity resolves to the
// short-interest/single defaults.
type Classifier struct {
	cfg Config
}

func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify inspects the request configuration and optional free-text
// question. An explicit dataset name is authoritative; otherwise keyword
// heuristics on the question apply.
func (c *Classifier) Classify(req models.AssessmentRequest) models.Classification {
	question := strings.ToLower(req.ConfigString("question"))
	kind := c.datasetKind(req, question)

	var shape models.ResponseShape
	switch kind {
	case models.DatasetTreasuryAggregate:
		shape = c.treasuryShape(question)
	default:
		if util.NormalizeSymbols(req.Config["symbols"]) != nil {
			shape = models.ShapeMultiSymbolMax
		} else {
			shape = models.ShapeSingleSymbol
		}
	}

	return models.Classification{Kind: kind, Shape: shape}
}

// IsWeeklyName reports whether an explicit dataset name denotes the weekly
// summary dataset.
func IsWeeklyName(name string) bool {
	return strings.Contains(strings.ToLower(name), "weeklysummary")
}

// IsTreasuryName reports whether an explicit dataset name denotes the
// Treasury daily aggregates dataset.
func IsTreasuryName(name string) bool {
	return strings.Contains(strings.ToLower(name), "treasurydailyaggregates")
}

// IsWeeklyQuestion applies the weekly heuristic: a weekly keyword AND a
// share keyword must both be present.
func (c *Classifier) IsWeeklyQuestion(question string) bool {
	lowered := strings.ToLower(question)
	return containsAny(lowered, c.cfg.WeeklyKeywords) && containsAny(lowered, c.cfg.ShareKeywords)
}

func (c *Classifier) datasetKind(req models.AssessmentRequest, question string) models.DatasetKind {
	name := req.ConfigString("dataset_name_eval", "datasetNameEval", "dataset_name", "datasetName")
	if name != "" {
		switch {
		case IsWeeklyName(name):
			return models.DatasetWeeklySummary
		case IsTreasuryName(name):
			return models.DatasetTreasuryAggregate
		default:
			return models.DatasetShortInterest
		}
	}
	if question == "" {
		return models.DatasetShortInterest
	}
	if c.IsWeeklyQuestion(question) {
		return models.DatasetWeeklySummary
	}
	if containsAny(question, c.cfg.TreasuryKeywords) {
		return models.DatasetTreasuryAggregate
	}
	return models.DatasetShortInterest
}

func (c *Classifier) treasuryShape(question string) models.ResponseShape {
	hasVolume := strings.Contains(question, c.cfg.VolumePhrase)
	if hasVolume && containsAny(question, c.cfg.YearOverYear) {
		return models.ShapeTreasuryDelta
	}
	if hasVolume && containsAny(question, c.cfg.MaxKeywords) {
		return models.ShapeTreasuryMax
	}
	return models.ShapeTreasurySingle
}

func containsAny(s string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(s, key) {
			return true
		}
	}
	return false
}
