package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
	"github.com/wczubal1/GreenAgentWitty/internal/service/dates"
	"github.com/wczubal1/GreenAgentWitty/pkg/util"
)

// Alias tables: every semantic field with the record keys it may appear
// under, probed in order. First-class so the recognized aliases are a
// testable artifact rather than ad hoc lookups.
var (
	SymbolAliases        = []string{"symbol", "symbolCode", "issueSymbolIdentifier"}
	ShortDateAliases     = []string{"settlementDate", "settlement_date"}
	WeeklyDateAliases    = []string{"weekStartDate", "summaryStartDate", "settlementDate", "settlement_date"}
	ShortQuantityAliases = []string{"currentShortPositionQuantity"}
	WeeklyQuantityAliases = []string{"totalWeeklyShareQuantity"}

	MaturityAliases     = []string{"yearsToMaturity", "years_to_maturity", "maturityBucket", "maturity_bucket"}
	BenchmarkAliases    = []string{"benchmark", "benchmarkClassification", "benchmark_classification"}
	VolumeAliases       = []string{"dealerCustomerVolume", "dealer_customer_volume", "totalDealerCustomerVolume", "volume"}
	TreasuryDateAliases = []string{"tradeDate", "trade_date", "date"}

	AttemptDateAliases    = []string{"settlement_date", "settlementDate", "trade_date", "tradeDate", "date"}
	AttemptHasDataAliases = []string{"has_data", "hasData"}
)

// FieldSet groups the aliases of one dataset's record fields.
type FieldSet struct {
	Symbol   []string
	Date     []string
	Quantity []string
}

var (
	ShortInterestFields = FieldSet{Symbol: SymbolAliases, Date: ShortDateAliases, Quantity: ShortQuantityAliases}
	WeeklySummaryFields = FieldSet{Symbol: SymbolAliases, Date: WeeklyDateAliases, Quantity: WeeklyQuantityAliases}
)

// FieldsFor returns the record field set of a dataset kind's quantity
// lookup. Treasury uses its own bucket/benchmark matching instead.
func FieldsFor(kind models.DatasetKind) FieldSet {
	if kind == models.DatasetWeeklySummary {
		return WeeklySummaryFields
	}
	return ShortInterestFields
}

// FieldValue returns the first present, non-nil value among the aliases.
func FieldValue(rec map[string]interface{}, aliases []string) (interface{}, bool) {
	for _, key := range aliases {
		if v, ok := rec[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// FieldString returns the first alias value that renders to a non-empty
// trimmed string.
func FieldString(rec map[string]interface{}, aliases []string) (string, bool) {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// CoerceNumber accepts a value as numeric if it already is one or if its
// string form parses as a decimal.
func CoerceNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		f, _ := d.Float64()
		return f, true
	default:
		return 0, false
	}
}

// ExtractQuantity finds the claimed quantity and owning record for one
// symbol and target date. A top-level value under the quantity aliases wins
// (with an optional embedded "record" object); otherwise the normalized
// record list is searched for a symbol match (case-insensitive exact) and a
// date match (string prefix, tolerating time-of-day suffixes).
func ExtractQuantity(payload interface{}, symbol, targetDate string, fs FieldSet) (interface{}, map[string]interface{}) {
	if obj, ok := payload.(map[string]interface{}); ok {
		record, _ := obj["record"].(map[string]interface{})
		if direct, ok := FieldValue(obj, fs.Quantity); ok {
			if record != nil {
				return direct, record
			}
			return direct, obj
		}
		if record != nil {
			if v, ok := FieldValue(record, fs.Quantity); ok {
				return v, record
			}
		}
	}

	target := strings.ToUpper(strings.TrimSpace(symbol))
	for _, rec := range NormalizeRecords(payload) {
		recSymbol, ok := FieldString(rec, fs.Symbol)
		if !ok || strings.ToUpper(recSymbol) != target {
			continue
		}
		recDate, ok := FieldString(rec, fs.Date)
		if !ok || !strings.HasPrefix(recDate, targetDate) {
			continue
		}
		v, _ := FieldValue(rec, fs.Quantity)
		return v, rec
	}
	return nil, nil
}

// ParseAttempts converts a raw attempts list into Attempt values. Entries
// without a parseable date are dropped; HasData honors an explicit
// has_data flag, otherwise a coercible quantity implies data was found.
func ParseAttempts(v interface{}, quantityAliases []string) []models.Attempt {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	attempts := make([]models.Attempt, 0, len(list))
	for _, item := range list {
		raw, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		date, ok := FieldString(raw, AttemptDateAliases)
		if !ok {
			continue
		}
		if _, ok := util.ParseISODate(date); !ok {
			continue
		}
		quantity, numeric := 0.0, false
		if qv, ok := FieldValue(raw, quantityAliases); ok {
			quantity, numeric = CoerceNumber(qv)
		}
		hasData := numeric
		if flag, ok := FieldValue(raw, AttemptHasDataAliases); ok {
			if b, isBool := flag.(bool); isBool {
				hasData = b && numeric
			}
		}
		attempts = append(attempts, models.Attempt{Date: date, Quantity: quantity, HasData: hasData})
	}
	return attempts
}

// ClosestAttempt selects the attempt whose date has minimum absolute
// day-difference from the target. Attempts without data are discarded;
// ties keep the first encountered.
func ClosestAttempt(attempts []models.Attempt, target time.Time) (models.Attempt, bool) {
	var best models.Attempt
	bestDiff, found := 0, false
	for _, attempt := range attempts {
		if !attempt.HasData {
			continue
		}
		date, ok := util.ParseISODate(attempt.Date)
		if !ok {
			continue
		}
		diff := dates.DayDiff(date, target)
		if !found || diff < bestDiff {
			best, bestDiff, found = attempt, diff, true
		}
	}
	return best, found
}
