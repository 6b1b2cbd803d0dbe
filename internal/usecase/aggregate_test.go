package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
)

func testAssessor() *Assessor {
	return &Assessor{cfg: EngineConfig{MinAttempts: 3, QuantityTolerance: 1e-4, DeltaTolerance: 1e-6}}
}

func attemptsFor(quantity float64, dateList ...string) []interface{} {
	attempts := make([]interface{}, 0, len(dateList))
	for _, date := range dateList {
		attempts = append(attempts, map[string]interface{}{
			"settlement_date": date,
			"quantity":        quantity,
		})
	}
	return attempts
}

func TestMaxAcrossSymbolsPass(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16", Reason: "provided"}
	parsed := map[string]interface{}{
		"best_symbol":   "BBB",
		"best_quantity": 250.0,
		"results": []interface{}{
			map[string]interface{}{
				"symbol":      "AAA",
				"chosen_date": "2025-06-13",
				"attempts":    attemptsFor(100.0, "2025-06-13", "2025-06-06", "2025-06-20"),
			},
			map[string]interface{}{
				"symbol":      "BBB",
				"chosen_date": "2025-06-13",
				"attempts":    attemptsFor(250.0, "2025-06-13", "2025-06-06", "2025-06-20"),
			},
		},
	}
	out := a.evaluateMaxAcrossSymbols(parsed, []string{"AAA", "BBB"}, target, models.DatasetShortInterest)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "BBB", out.BestSymbol)
	assert.Equal(t, 250.0, out.BestQuantity)
}

func TestMaxAcrossSymbolsMissingSymbolSorted(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"results": []interface{}{
			map[string]interface{}{
				"symbol":      "BBB",
				"chosen_date": "2025-06-13",
				"attempts":    attemptsFor(10.0, "2025-06-13", "2025-06-06", "2025-06-20"),
			},
		},
	}
	out := a.evaluateMaxAcrossSymbols(parsed, []string{"CCC", "BBB", "AAA"}, target, models.DatasetShortInterest)
	assert.Contains(t, out.Errors, "Missing results for symbols: AAA, CCC")
}

func TestMaxAcrossSymbolsTooFewAttempts(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"results": []interface{}{
			map[string]interface{}{
				"symbol":      "AAA",
				"chosen_date": "2025-06-13",
				"attempts":    attemptsFor(10.0, "2025-06-13"),
			},
		},
	}
	out := a.evaluateMaxAcrossSymbols(parsed, []string{"AAA"}, target, models.DatasetShortInterest)
	assert.Contains(t, out.Errors, "AAA: expected at least 3 attempts.")
}

func TestMaxAcrossSymbolsChosenDateNotClosest(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"results": []interface{}{
			map[string]interface{}{
				"symbol":      "AAA",
				"chosen_date": "2025-06-10",
				"attempts": []interface{}{
					map[string]interface{}{"settlement_date": "2025-06-10", "quantity": 1.0},
					map[string]interface{}{"settlement_date": "2025-06-20", "quantity": 2.0},
					map[string]interface{}{"settlement_date": "2025-06-01", "quantity": 3.0},
				},
			},
		},
	}
	out := a.evaluateMaxAcrossSymbols(parsed, []string{"AAA"}, target, models.DatasetShortInterest)
	assert.Contains(t, out.Errors, "AAA: chosen_date 2025-06-10 is not closest to 2025-06-16.")
	// recomputed best still uses the closest attempt
	assert.Equal(t, 2.0, out.BestQuantity)
}

func TestMaxAcrossSymbolsMissingChosenDate(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"results": []interface{}{
			map[string]interface{}{
				"symbol":   "AAA",
				"attempts": attemptsFor(10.0, "2025-06-13", "2025-06-06", "2025-06-20"),
			},
		},
	}
	out := a.evaluateMaxAcrossSymbols(parsed, []string{"AAA"}, target, models.DatasetShortInterest)
	assert.Contains(t, out.Errors, "AAA: missing chosen_date.")
}

func TestMaxAcrossSymbolsNoNumericQuantities(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"results": []interface{}{
			map[string]interface{}{
				"symbol":      "AAA",
				"chosen_date": "2025-06-13",
				"attempts": []interface{}{
					map[string]interface{}{"settlement_date": "2025-06-13", "quantity": "n/a"},
					map[string]interface{}{"settlement_date": "2025-06-06", "quantity": "n/a"},
					map[string]interface{}{"settlement_date": "2025-06-20", "quantity": "n/a"},
				},
			},
		},
	}
	out := a.evaluateMaxAcrossSymbols(parsed, []string{"AAA"}, target, models.DatasetShortInterest)
	assert.Contains(t, out.Errors, "AAA: no numeric quantity found in attempts.")
	assert.Contains(t, out.Errors, "No numeric short interest values returned.")
	assert.False(t, out.Found)
}

func TestMaxAcrossSymbolsWeeklyNoun(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	out := a.evaluateMaxAcrossSymbols(map[string]interface{}{}, nil, target, models.DatasetWeeklySummary)
	assert.Contains(t, out.Errors, "Purple response missing results list.")
	assert.Contains(t, out.Errors, "No numeric weekly share values returned.")
}

func TestMaxAcrossSymbolsClaimMismatches(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_symbol":   "AAA",
		"best_quantity": 101.0,
		"results": []interface{}{
			map[string]interface{}{
				"symbol":      "AAA",
				"chosen_date": "2025-06-13",
				"attempts":    attemptsFor(100.0, "2025-06-13", "2025-06-06", "2025-06-20"),
			},
			map[string]interface{}{
				"symbol":      "BBB",
				"chosen_date": "2025-06-13",
				"attempts":    attemptsFor(250.0, "2025-06-13", "2025-06-06", "2025-06-20"),
			},
		},
	}
	out := a.evaluateMaxAcrossSymbols(parsed, []string{"AAA", "BBB"}, target, models.DatasetShortInterest)
	assert.Contains(t, out.Errors, "Best symbol mismatch: expected BBB, got AAA.")
	assert.Contains(t, out.Errors, "Best quantity mismatch: expected 250, got 101.")
}

func TestMaxAcrossSymbolsQuantityWithinTolerance(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_symbol":   "AAA",
		"best_quantity": 100.00005,
		"results": []interface{}{
			map[string]interface{}{
				"symbol":      "AAA",
				"chosen_date": "2025-06-13",
				"attempts":    attemptsFor(100.0, "2025-06-13", "2025-06-06", "2025-06-20"),
			},
		},
	}
	out := a.evaluateMaxAcrossSymbols(parsed, []string{"AAA"}, target, models.DatasetShortInterest)
	assert.Empty(t, out.Errors)
}

func TestMaxAcrossSymbolsIdempotent(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"results": []interface{}{
			map[string]interface{}{
				"symbol":      "AAA",
				"chosen_date": "2025-06-13",
				"attempts":    attemptsFor(100.0, "2025-06-13", "2025-06-06", "2025-06-20"),
			},
		},
	}
	first := a.evaluateMaxAcrossSymbols(parsed, []string{"AAA"}, target, models.DatasetShortInterest)
	second := a.evaluateMaxAcrossSymbols(parsed, []string{"AAA"}, target, models.DatasetShortInterest)
	require.Equal(t, first, second)
}
