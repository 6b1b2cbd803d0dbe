package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
	"github.com/wczubal1/GreenAgentWitty/internal/service/dates"
	"github.com/wczubal1/GreenAgentWitty/pkg/util"
)

// treasurySpec carries the request-side treasury parameters derived from
// the configuration and question text.
type treasurySpec struct {
	Benchmark string // "On-the-run" / "Off-the-run", empty when unconstrained
	Bucket    string // explicit years_to_maturity bucket, empty when unconstrained
}

// treasuryOutcome is the recomputed treasury answer plus accumulated
// diagnostics for any of the three treasury shapes.
type treasuryOutcome struct {
	BestBucket   string
	BestVolume   float64
	BestDelta    float64
	Found        bool
	Volume       float64 // single-shape matched volume
	Record       map[string]interface{}
	Candidates   []map[string]interface{}
	Previous     []map[string]interface{}
	PreviousDate string
	Errors       []string
}

// evaluateTreasurySingle checks a direct volume lookup: the stated bucket,
// benchmark and trade date must match the request, and the volume must be
// numeric.
func (a *Assessor) evaluateTreasurySingle(parsed interface{}, spec treasurySpec, target models.TargetDate) treasuryOutcome {
	out := treasuryOutcome{}
	obj, _ := parsed.(map[string]interface{})

	record, _ := obj["record"].(map[string]interface{})
	if record == nil {
		record = obj
	}
	out.Record = record

	value, ok := FieldValue(obj, VolumeAliases)
	if !ok && record != nil {
		value, ok = FieldValue(record, VolumeAliases)
	}
	if !ok {
		out.Errors = append(out.Errors, "Missing dealerCustomerVolume for the requested bucket/date.")
	} else {
		volume, numeric := CoerceNumber(value)
		if !numeric {
			out.Errors = append(out.Errors, "dealerCustomerVolume is not numeric.")
		} else {
			out.Volume = volume
			out.Found = true
		}
	}

	if record != nil {
		if spec.Bucket != "" {
			if bucket, ok := FieldString(record, MaturityAliases); ok && !bucketEqual(bucket, spec.Bucket) {
				out.Errors = append(out.Errors, fmt.Sprintf("Maturity bucket mismatch: expected %s, got %s.", spec.Bucket, bucket))
			}
		}
		if spec.Benchmark != "" {
			if benchmark, ok := FieldString(record, BenchmarkAliases); ok && !strings.EqualFold(benchmark, spec.Benchmark) {
				out.Errors = append(out.Errors, fmt.Sprintf("Benchmark mismatch: expected %s, got %s.", spec.Benchmark, benchmark))
			}
		}
		if date, ok := FieldString(record, TreasuryDateAliases); ok && !strings.HasPrefix(date, target.Date) {
			out.Errors = append(out.Errors, fmt.Sprintf("Date mismatch: expected %s, got %s.", target.Date, date))
		}
	}

	return out
}

// evaluateTreasuryMax recomputes the max dealer customer volume across
// maturity buckets from the candidates list and checks the claimed best
// bucket and volume.
func (a *Assessor) evaluateTreasuryMax(parsed interface{}, spec treasurySpec, target models.TargetDate) treasuryOutcome {
	out := treasuryOutcome{}
	out.Candidates = treasuryCandidates(parsed, "candidates")
	if len(out.Candidates) == 0 {
		out.Errors = append(out.Errors, "Purple response missing candidates list.")
		return out
	}

	perBucket := maxVolumePerBucket(out.Candidates, spec, target.Date)
	if len(perBucket) == 0 {
		out.Errors = append(out.Errors, "No numeric dealer customer volumes returned.")
		return out
	}
	for _, bucket := range sortedBuckets(perBucket) {
		volume := perBucket[bucket]
		if !out.Found || volume > out.BestVolume {
			out.BestBucket, out.BestVolume, out.Found = bucket, volume, true
		}
	}

	obj, _ := parsed.(map[string]interface{})
	if claimedBucket, ok := FieldString(obj, []string{"best_years_to_maturity", "bestYearsToMaturity"}); ok {
		if !bucketEqual(claimedBucket, out.BestBucket) {
			out.Errors = append(out.Errors, fmt.Sprintf("Best maturity bucket mismatch: expected %s, got %s.", out.BestBucket, claimedBucket))
		}
	} else {
		out.Errors = append(out.Errors, "Purple response missing best_years_to_maturity.")
	}
	if claimed, ok := FieldValue(obj, []string{"best_dealer_customer_volume", "bestDealerCustomerVolume"}); ok {
		volume, numeric := CoerceNumber(claimed)
		if !numeric || math.Abs(volume-out.BestVolume) > a.cfg.QuantityTolerance {
			out.Errors = append(out.Errors, fmt.Sprintf("Best volume mismatch: expected %v, got %v.", out.BestVolume, claimed))
		}
	} else {
		out.Errors = append(out.Errors, "Purple response missing best_dealer_customer_volume.")
	}

	return out
}

// evaluateTreasuryDelta recomputes the year-over-year volume delta per
// maturity bucket. Bucket maps are built independently for the current and
// previous-year candidate sets, intersected, and the winner maximizes
// current minus previous.
func (a *Assessor) evaluateTreasuryDelta(parsed interface{}, spec treasurySpec, target models.TargetDate) treasuryOutcome {
	out := treasuryOutcome{}
	out.Candidates = treasuryCandidates(parsed, "candidates")
	out.Previous = treasuryPreviousCandidates(parsed)

	currentDate, ok := util.ParseISODate(target.Date)
	if ok {
		out.PreviousDate = util.FormatISODate(dates.PreviousYear(currentDate))
	}

	if len(out.Candidates) == 0 {
		out.Errors = append(out.Errors, "Purple response missing candidates list.")
	}
	if len(out.Previous) == 0 {
		out.Errors = append(out.Errors, "Purple response missing previous_candidates list.")
	}
	if len(out.Candidates) == 0 || len(out.Previous) == 0 {
		return out
	}

	current := maxVolumePerBucket(out.Candidates, spec, target.Date)
	previous := maxVolumePerBucket(out.Previous, spec, out.PreviousDate)

	shared := make(map[string]float64)
	for bucket, volume := range current {
		if prev, ok := previous[bucket]; ok {
			shared[bucket] = volume - prev
		}
	}
	if len(shared) == 0 {
		out.Errors = append(out.Errors, "No maturity buckets present in both years.")
		return out
	}
	for _, bucket := range sortedBuckets(shared) {
		delta := shared[bucket]
		if !out.Found || delta > out.BestDelta {
			out.BestBucket, out.BestDelta, out.Found = bucket, delta, true
		}
	}

	obj, _ := parsed.(map[string]interface{})
	if claimedBucket, ok := FieldString(obj, []string{"best_years_to_maturity", "bestYearsToMaturity"}); ok {
		if !bucketEqual(claimedBucket, out.BestBucket) {
			out.Errors = append(out.Errors, fmt.Sprintf("Best maturity bucket mismatch: expected %s, got %s.", out.BestBucket, claimedBucket))
		}
	} else {
		out.Errors = append(out.Errors, "Purple response missing best_years_to_maturity.")
	}
	if claimed, ok := FieldValue(obj, []string{"best_dealer_customer_volume_delta", "bestDealerCustomerVolumeDelta"}); ok {
		delta, numeric := CoerceNumber(claimed)
		if !numeric || math.Abs(delta-out.BestDelta) > a.cfg.DeltaTolerance {
			out.Errors = append(out.Errors, fmt.Sprintf("Best delta mismatch: expected %v, got %v.", out.BestDelta, claimed))
		}
	} else {
		out.Errors = append(out.Errors, "Purple response missing best_dealer_customer_volume_delta.")
	}

	return out
}

// maxVolumePerBucket keeps, per maturity bucket, the maximum numeric volume
// among candidates passing the benchmark/bucket/date filters. Candidates
// that omit a date are kept; stated dates must prefix-match targetDate.
func maxVolumePerBucket(candidates []map[string]interface{}, spec treasurySpec, targetDate string) map[string]float64 {
	out := make(map[string]float64)
	for _, candidate := range candidates {
		bucket, ok := FieldString(candidate, MaturityAliases)
		if !ok {
			continue
		}
		if spec.Bucket != "" && !bucketEqual(bucket, spec.Bucket) {
			continue
		}
		if spec.Benchmark != "" {
			if benchmark, ok := FieldString(candidate, BenchmarkAliases); ok && !strings.EqualFold(benchmark, spec.Benchmark) {
				continue
			}
		}
		if targetDate != "" {
			if date, ok := FieldString(candidate, TreasuryDateAliases); ok && !strings.HasPrefix(date, targetDate) {
				continue
			}
		}
		value, ok := FieldValue(candidate, VolumeAliases)
		if !ok {
			continue
		}
		volume, numeric := CoerceNumber(value)
		if !numeric {
			continue
		}
		key := normalizeBucket(bucket)
		if existing, ok := out[key]; !ok || volume > existing {
			out[key] = volume
		}
	}
	return out
}

// treasuryCandidates reads the named candidate list, falling back to the
// generic container keys.
func treasuryCandidates(payload interface{}, key string) []map[string]interface{} {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return NormalizeRecords(payload)
	}
	if list, ok := obj[key].([]interface{}); ok {
		return mapElements(list)
	}
	return NormalizeRecords(payload)
}

func treasuryPreviousCandidates(payload interface{}) []map[string]interface{} {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil
	}
	for _, key := range []string{"previous_candidates", "candidates_previous_year", "previousCandidates"} {
		if list, ok := obj[key].([]interface{}); ok {
			return mapElements(list)
		}
	}
	return nil
}

// normalizeBucket canonicalizes a maturity bucket label for map keys:
// whitespace collapsed, case preserved as seen first.
func normalizeBucket(bucket string) string {
	return strings.Join(strings.Fields(bucket), " ")
}

func bucketEqual(a, b string) bool {
	return strings.EqualFold(normalizeBucket(a), normalizeBucket(b))
}

func sortedBuckets(m map[string]float64) []string {
	buckets := make([]string, 0, len(m))
	for bucket := range m {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)
	return buckets
}
