package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
)

func candidate(bucket, benchmark string, volume interface{}) map[string]interface{} {
	return map[string]interface{}{
		"yearsToMaturity":      bucket,
		"benchmark":            benchmark,
		"dealerCustomerVolume": volume,
	}
}

func toList(records ...map[string]interface{}) []interface{} {
	out := make([]interface{}, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}

func TestTreasuryMaxPass(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_years_to_maturity":      "> 5 years and <= 7 years",
		"best_dealer_customer_volume": 900.0,
		"candidates": toList(
			candidate("<= 2 years", "On-the-run", 500.0),
			candidate("> 5 years and <= 7 years", "On-the-run", 900.0),
			candidate("> 5 years and <= 7 years", "On-the-run", 400.0),
		),
	}
	out := a.evaluateTreasuryMax(parsed, treasurySpec{Benchmark: "On-the-run"}, target)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "> 5 years and <= 7 years", out.BestBucket)
	assert.Equal(t, 900.0, out.BestVolume)
}

func TestTreasuryMaxBenchmarkFilter(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_years_to_maturity":      "<= 2 years",
		"best_dealer_customer_volume": 500.0,
		"candidates": toList(
			candidate("<= 2 years", "On-the-run", 500.0),
			candidate("> 7 years", "Off-the-run", 9000.0),
		),
	}
	out := a.evaluateTreasuryMax(parsed, treasurySpec{Benchmark: "On-the-run"}, target)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "<= 2 years", out.BestBucket)
}

func TestTreasuryMaxBucketConstraint(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_years_to_maturity":      "<= 2 years",
		"best_dealer_customer_volume": 500.0,
		"candidates": toList(
			candidate("<= 2 years", "On-the-run", 500.0),
			candidate("> 7 years", "On-the-run", 9000.0),
		),
	}
	out := a.evaluateTreasuryMax(parsed, treasurySpec{Benchmark: "On-the-run", Bucket: "<= 2 years"}, target)
	assert.Empty(t, out.Errors)
	assert.Equal(t, 500.0, out.BestVolume)
}

func TestTreasuryMaxClaimMismatch(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_years_to_maturity":      "<= 2 years",
		"best_dealer_customer_volume": 500.0,
		"candidates": toList(
			candidate("<= 2 years", "On-the-run", 500.0),
			candidate("> 7 years", "On-the-run", 9000.0),
		),
	}
	out := a.evaluateTreasuryMax(parsed, treasurySpec{Benchmark: "On-the-run"}, target)
	assert.Contains(t, out.Errors, "Best maturity bucket mismatch: expected > 7 years, got <= 2 years.")
	assert.Contains(t, out.Errors, "Best volume mismatch: expected 9000, got 500.")
}

func TestTreasuryMaxMissingCandidates(t *testing.T) {
	a := testAssessor()
	out := a.evaluateTreasuryMax(map[string]interface{}{}, treasurySpec{}, models.TargetDate{Date: "2025-06-16"})
	assert.Contains(t, out.Errors, "Purple response missing candidates list.")
}

func TestTreasuryMaxStringVolumes(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_years_to_maturity":      "<= 2 years",
		"best_dealer_customer_volume": "750",
		"candidates": toList(
			candidate("<= 2 years", "", "750"),
			candidate("<= 2 years", "", "not a number"),
		),
	}
	out := a.evaluateTreasuryMax(parsed, treasurySpec{}, target)
	assert.Empty(t, out.Errors)
	assert.Equal(t, 750.0, out.BestVolume)
}

func TestTreasuryDeltaPass(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_years_to_maturity":            "<= 2 years",
		"best_dealer_customer_volume_delta": 400.0,
		"candidates": toList(
			candidate("<= 2 years", "On-the-run", 1000.0),
		),
		"previous_candidates": toList(
			candidate("<= 2 years", "On-the-run", 600.0),
		),
	}
	out := a.evaluateTreasuryDelta(parsed, treasurySpec{Benchmark: "On-the-run"}, target)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "<= 2 years", out.BestBucket)
	assert.InDelta(t, 400.0, out.BestDelta, 1e-9)
	assert.Equal(t, "2024-06-16", out.PreviousDate)
}

func TestTreasuryDeltaIntersectsBuckets(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_years_to_maturity":            "> 7 years",
		"best_dealer_customer_volume_delta": 50.0,
		"candidates": toList(
			candidate("<= 2 years", "", 1000.0),
			candidate("> 7 years", "", 300.0),
		),
		"previous_candidates": toList(
			candidate("> 7 years", "", 250.0),
		),
	}
	out := a.evaluateTreasuryDelta(parsed, treasurySpec{}, target)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "> 7 years", out.BestBucket)
}

func TestTreasuryDeltaNoSharedBuckets(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"candidates":          toList(candidate("<= 2 years", "", 1000.0)),
		"previous_candidates": toList(candidate("> 7 years", "", 250.0)),
	}
	out := a.evaluateTreasuryDelta(parsed, treasurySpec{}, target)
	assert.Contains(t, out.Errors, "No maturity buckets present in both years.")
}

func TestTreasuryDeltaMissingLists(t *testing.T) {
	a := testAssessor()
	out := a.evaluateTreasuryDelta(map[string]interface{}{}, treasurySpec{}, models.TargetDate{Date: "2025-06-16"})
	assert.Contains(t, out.Errors, "Purple response missing candidates list.")
	assert.Contains(t, out.Errors, "Purple response missing previous_candidates list.")
}

func TestTreasuryDeltaLeapDayPreviousDate(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2024-02-29"}
	parsed := map[string]interface{}{
		"best_years_to_maturity":            "<= 2 years",
		"best_dealer_customer_volume_delta": 100.0,
		"candidates":                        toList(candidate("<= 2 years", "", 200.0)),
		"previous_candidates":               toList(candidate("<= 2 years", "", 100.0)),
	}
	out := a.evaluateTreasuryDelta(parsed, treasurySpec{}, target)
	assert.Equal(t, "2023-02-28", out.PreviousDate)
	assert.Empty(t, out.Errors)
}

func TestTreasuryDeltaClaimMismatch(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"best_years_to_maturity":            "<= 2 years",
		"best_dealer_customer_volume_delta": 399.0,
		"candidates":                        toList(candidate("<= 2 years", "", 1000.0)),
		"previous_candidates":               toList(candidate("<= 2 years", "", 600.0)),
	}
	out := a.evaluateTreasuryDelta(parsed, treasurySpec{}, target)
	assert.Contains(t, out.Errors, "Best delta mismatch: expected 400, got 399.")
}

func TestTreasurySinglePass(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"dealerCustomerVolume": 1234.5,
		"record": map[string]interface{}{
			"yearsToMaturity":      "<= 2 years",
			"benchmark":            "On-the-run",
			"tradeDate":            "2025-06-16",
			"dealerCustomerVolume": 1234.5,
		},
	}
	out := a.evaluateTreasurySingle(parsed, treasurySpec{Benchmark: "On-the-run", Bucket: "<= 2 years"}, target)
	assert.Empty(t, out.Errors)
	assert.Equal(t, 1234.5, out.Volume)
}

func TestTreasurySingleMismatches(t *testing.T) {
	a := testAssessor()
	target := models.TargetDate{Date: "2025-06-16"}
	parsed := map[string]interface{}{
		"record": map[string]interface{}{
			"yearsToMaturity":      "> 7 years",
			"benchmark":            "Off-the-run",
			"tradeDate":            "2025-06-13",
			"dealerCustomerVolume": "n/a",
		},
	}
	out := a.evaluateTreasurySingle(parsed, treasurySpec{Benchmark: "On-the-run", Bucket: "<= 2 years"}, target)
	assert.Contains(t, out.Errors, "dealerCustomerVolume is not numeric.")
	assert.Contains(t, out.Errors, "Maturity bucket mismatch: expected <= 2 years, got > 7 years.")
	assert.Contains(t, out.Errors, "Benchmark mismatch: expected On-the-run, got Off-the-run.")
	assert.Contains(t, out.Errors, "Date mismatch: expected 2025-06-16, got 2025-06-13.")
}

func TestTreasurySingleMissingVolume(t *testing.T) {
	a := testAssessor()
	out := a.evaluateTreasurySingle(map[string]interface{}{}, treasurySpec{}, models.TargetDate{Date: "2025-06-16"})
	assert.Contains(t, out.Errors, "Missing dealerCustomerVolume for the requested bucket/date.")
}

func TestBucketNormalization(t *testing.T) {
	require.True(t, bucketEqual("<= 2  years", "<= 2 years"))
	require.True(t, bucketEqual("ON-THE-RUN", "on-the-run"))
	require.False(t, bucketEqual("<= 2 years", "> 7 years"))
}
