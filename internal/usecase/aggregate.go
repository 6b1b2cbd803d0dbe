package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
	"github.com/wczubal1/GreenAgentWitty/pkg/util"
)

// maxSymbolsOutcome is the recomputed answer for a multi-symbol max
// question plus every diagnostic collected along the way.
type maxSymbolsOutcome struct {
	BestSymbol   string
	BestQuantity float64
	Found        bool
	Results      []map[string]interface{}
	Errors       []string
}

// chosenDateAliases per dataset: where a per-symbol result may state the
// date it settled on.
var (
	shortChosenDateAliases  = []string{"chosen_date", "settlement_date"}
	weeklyChosenDateAliases = []string{"chosen_date", "weekStartDate", "summaryStartDate"}
)

// evaluateMaxAcrossSymbols recomputes the max-quantity-across-symbols
// answer from the responder's own attempt data and checks the claimed
// best_symbol/best_quantity against it. Every check runs regardless of
// earlier failures; diagnostics accumulate.
func (a *Assessor) evaluateMaxAcrossSymbols(parsed interface{}, symbols []string, target models.TargetDate, kind models.DatasetKind) maxSymbolsOutcome {
	weekly := kind == models.DatasetWeeklySummary
	metricNoun := "short interest"
	attemptQuantityAliases := []string{"quantity", "currentShortPositionQuantity"}
	chosenAliases := shortChosenDateAliases
	recordDateAliases := ShortDateAliases
	if weekly {
		metricNoun = "weekly share"
		attemptQuantityAliases = []string{"quantity", "totalWeeklyShareQuantity"}
		chosenAliases = weeklyChosenDateAliases
		recordDateAliases = WeeklyDateAliases
	}

	out := maxSymbolsOutcome{}
	out.Results = extractResults(parsed)
	if len(out.Results) == 0 {
		out.Errors = append(out.Errors, "Purple response missing results list.")
	}

	expected := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		expected[strings.ToUpper(s)] = struct{}{}
	}
	covered := make(map[string]struct{}, len(out.Results))
	targetDate, haveTarget := util.ParseISODate(target.Date)

	for _, result := range out.Results {
		symbol, ok := FieldString(result, SymbolAliases)
		if !ok {
			continue
		}
		symbol = strings.ToUpper(symbol)
		covered[symbol] = struct{}{}

		rawAttempts, _ := result["attempts"].([]interface{})
		if len(rawAttempts) < a.cfg.MinAttempts {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: expected at least %d attempts.", symbol, a.cfg.MinAttempts))
		}

		chosen := chosenDate(result, chosenAliases, recordDateAliases)
		chosenTime, chosenParsed := util.ParseISODate(chosen)

		var closest models.Attempt
		closestFound := false
		if haveTarget {
			closest, closestFound = ClosestAttempt(ParseAttempts(result["attempts"], attemptQuantityAliases), targetDate)
		}
		if !closestFound {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: no numeric quantity found in attempts.", symbol))
			continue
		}

		if !chosenParsed {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: missing chosen_date.", symbol))
		} else if closestTime, ok := util.ParseISODate(closest.Date); ok && !chosenTime.Equal(closestTime) {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: chosen_date %s is not closest to %s.", symbol, chosen, target.Date))
		}

		if !out.Found || closest.Quantity > out.BestQuantity {
			out.BestSymbol = symbol
			out.BestQuantity = closest.Quantity
			out.Found = true
		}
	}

	var missing []string
	for symbol := range expected {
		if _, ok := covered[symbol]; !ok {
			missing = append(missing, symbol)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		out.Errors = append(out.Errors, fmt.Sprintf("Missing results for symbols: %s", strings.Join(missing, ", ")))
	}

	if !out.Found {
		out.Errors = append(out.Errors, fmt.Sprintf("No numeric %s values returned.", metricNoun))
		return out
	}

	// Claimed best answer vs the independently recomputed one.
	if obj, ok := parsed.(map[string]interface{}); ok {
		if claimedSymbol, ok := FieldString(obj, []string{"best_symbol", "bestSymbol"}); ok {
			if strings.ToUpper(claimedSymbol) != out.BestSymbol {
				out.Errors = append(out.Errors, fmt.Sprintf("Best symbol mismatch: expected %s, got %s.", out.BestSymbol, claimedSymbol))
			}
		}
		if claimed, ok := FieldValue(obj, []string{"best_quantity", "bestQuantity"}); ok {
			quantity, numeric := CoerceNumber(claimed)
			if !numeric || math.Abs(quantity-out.BestQuantity) > a.cfg.QuantityTolerance {
				out.Errors = append(out.Errors, fmt.Sprintf("Best quantity mismatch: expected %v, got %v.", out.BestQuantity, claimed))
			}
		}
	}

	return out
}

// extractResults returns the per-symbol result objects of a multi-symbol
// response.
func extractResults(payload interface{}) []map[string]interface{} {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil
	}
	list, ok := obj["results"].([]interface{})
	if !ok {
		return nil
	}
	return mapElements(list)
}

// chosenDate digs the date a result claims to have settled on, falling back
// to the embedded record.
func chosenDate(result map[string]interface{}, chosenAliases, recordDateAliases []string) string {
	if date, ok := FieldString(result, chosenAliases); ok {
		return date
	}
	if record, ok := result["record"].(map[string]interface{}); ok {
		if date, ok := FieldString(record, recordDateAliases); ok {
			return date
		}
	}
	return ""
}
