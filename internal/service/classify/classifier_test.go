package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
)

func request(config map[string]interface{}) models.AssessmentRequest {
	return models.AssessmentRequest{
		Participants: map[string]string{"purple": "http://127.0.0.1:9010"},
		Config:       config,
	}
}

func TestExplicitDatasetNameWins(t *testing.T) {
	c := New(DefaultConfig())

	got := c.Classify(request(map[string]interface{}{
		"dataset_name": "weeklySummary",
		"question":     "what is the treasury dealer customer volume",
		"symbol":       "AAPL",
	}))
	assert.Equal(t, models.DatasetWeeklySummary, got.Kind)
	assert.Equal(t, models.ShapeSingleSymbol, got.Shape)

	got = c.Classify(request(map[string]interface{}{
		"dataset_name_eval": "treasuryDailyAggregates",
	}))
	assert.Equal(t, models.DatasetTreasuryAggregate, got.Kind)
	assert.Equal(t, models.ShapeTreasurySingle, got.Shape)
}

func TestWeeklyNeedsBothKeywordSets(t *testing.T) {
	c := New(DefaultConfig())

	got := c.Classify(request(map[string]interface{}{
		"question": "what was the total weekly share quantity for AAPL",
		"symbol":   "AAPL",
	}))
	assert.Equal(t, models.DatasetWeeklySummary, got.Kind)

	// A weekly keyword alone is not enough.
	got = c.Classify(request(map[string]interface{}{
		"question": "what happened last week for AAPL",
		"symbol":   "AAPL",
	}))
	assert.Equal(t, models.DatasetShortInterest, got.Kind)
}

func TestTreasuryShapes(t *testing.T) {
	c := New(DefaultConfig())

	got := c.Classify(request(map[string]interface{}{
		"question": "which maturity bucket had the highest dealer customer volume",
	}))
	assert.Equal(t, models.DatasetTreasuryAggregate, got.Kind)
	assert.Equal(t, models.ShapeTreasuryMax, got.Shape)

	got = c.Classify(request(map[string]interface{}{
		"question": "which bucket grew its dealer customer volume most year-over-year for the On-the-run benchmark",
	}))
	assert.Equal(t, models.ShapeTreasuryDelta, got.Shape)

	got = c.Classify(request(map[string]interface{}{
		"question": "report the dealer customer volume for the <= 2 years maturity bucket",
	}))
	assert.Equal(t, models.ShapeTreasurySingle, got.Shape)
}

func TestDefaultsToShortInterest(t *testing.T) {
	c := New(DefaultConfig())

	got := c.Classify(request(map[string]interface{}{"symbol": "AAPL"}))
	assert.Equal(t, models.DatasetShortInterest, got.Kind)
	assert.Equal(t, models.ShapeSingleSymbol, got.Shape)

	got = c.Classify(request(map[string]interface{}{"symbols": "AAPL,MSFT"}))
	assert.Equal(t, models.ShapeMultiSymbolMax, got.Shape)
}
