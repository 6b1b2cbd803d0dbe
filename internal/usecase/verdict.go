package usecase

import (
	"fmt"
	"strings"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
)

func verdictStatus(errors []string) string {
	if len(errors) == 0 {
		return models.StatusPass
	}
	return models.StatusFail
}

func metricLabel(kind models.DatasetKind) string {
	if kind == models.DatasetWeeklySummary {
		return "weekly share"
	}
	return "short interest"
}

// singleVerdict assembles the artifact for a single-symbol lookup. The
// quantity field name is dataset-specific.
func singleVerdict(kind models.DatasetKind, errors []string, symbol string, target models.TargetDate, quantity interface{}, record map[string]interface{}, purpleResponse interface{}) models.Verdict {
	status := verdictStatus(errors)
	label := metricLabel(kind)
	data := map[string]interface{}{
		"status":                 status,
		"errors":                 errors,
		"symbol":                 symbol,
		"settlement_date":        target.Date,
		"requested_date_reason":  target.Reason,
		"record":                 record,
		"purple_response":        purpleResponse,
	}
	if kind == models.DatasetWeeklySummary {
		data["totalWeeklyShareQuantity"] = quantity
	} else {
		data["currentShortPositionQuantity"] = quantity
	}
	return models.Verdict{
		Status:  status,
		Errors:  errors,
		Summary: fmt.Sprintf("%s lookup %s for %s on %s.", titleWords(label), status, symbol, target.Date),
		Data:    data,
	}
}

// multiVerdict assembles the artifact for a max-across-symbols lookup.
func multiVerdict(kind models.DatasetKind, out maxSymbolsOutcome, symbols []string, target models.TargetDate, purpleResponse interface{}) models.Verdict {
	status := verdictStatus(out.Errors)
	data := map[string]interface{}{
		"status":                status,
		"errors":                out.Errors,
		"symbols":               symbols,
		"settlement_date":       target.Date,
		"requested_date_reason": target.Reason,
		"results":               out.Results,
		"purple_response":       purpleResponse,
	}
	if out.Found {
		data["best_symbol"] = out.BestSymbol
		data["best_quantity"] = out.BestQuantity
	} else {
		data["best_symbol"] = nil
		data["best_quantity"] = nil
	}
	return models.Verdict{
		Status:  status,
		Errors:  out.Errors,
		Summary: fmt.Sprintf("Max %s lookup %s for %d symbols (requested date %s).", metricLabel(kind), status, len(symbols), target.Date),
		Data:    data,
	}
}

// treasurySingleVerdict assembles the artifact for a direct treasury volume
// lookup.
func treasurySingleVerdict(out treasuryOutcome, spec treasurySpec, target models.TargetDate, purpleResponse interface{}) models.Verdict {
	status := verdictStatus(out.Errors)
	data := map[string]interface{}{
		"status":                status,
		"errors":                out.Errors,
		"trade_date":            target.Date,
		"requested_date_reason": target.Reason,
		"benchmark":             spec.Benchmark,
		"years_to_maturity":     spec.Bucket,
		"record":                out.Record,
		"purple_response":       purpleResponse,
	}
	if out.Found {
		data["dealerCustomerVolume"] = out.Volume
	} else {
		data["dealerCustomerVolume"] = nil
	}
	return models.Verdict{
		Status:  status,
		Errors:  out.Errors,
		Summary: fmt.Sprintf("Treasury volume lookup %s for %s.", status, target.Date),
		Data:    data,
	}
}

// treasuryMaxVerdict assembles the artifact for a max-volume-across-buckets
// question.
func treasuryMaxVerdict(out treasuryOutcome, target models.TargetDate, purpleResponse interface{}) models.Verdict {
	status := verdictStatus(out.Errors)
	data := map[string]interface{}{
		"status":                status,
		"errors":                out.Errors,
		"trade_date":            target.Date,
		"requested_date_reason": target.Reason,
		"candidates":            out.Candidates,
		"purple_response":       purpleResponse,
	}
	if out.Found {
		data["best_years_to_maturity"] = out.BestBucket
		data["best_dealer_customer_volume"] = out.BestVolume
	} else {
		data["best_years_to_maturity"] = nil
		data["best_dealer_customer_volume"] = nil
	}
	return models.Verdict{
		Status:  status,
		Errors:  out.Errors,
		Summary: fmt.Sprintf("Max treasury volume lookup %s (requested date %s).", status, target.Date),
		Data:    data,
	}
}

// treasuryDeltaVerdict assembles the artifact for a year-over-year volume
// delta question.
func treasuryDeltaVerdict(out treasuryOutcome, target models.TargetDate, purpleResponse interface{}) models.Verdict {
	status := verdictStatus(out.Errors)
	data := map[string]interface{}{
		"status":                status,
		"errors":                out.Errors,
		"trade_date":            target.Date,
		"previous_trade_date":   out.PreviousDate,
		"requested_date_reason": target.Reason,
		"candidates":            out.Candidates,
		"previous_candidates":   out.Previous,
		"purple_response":       purpleResponse,
	}
	if out.Found {
		data["best_years_to_maturity"] = out.BestBucket
		data["best_dealer_customer_volume_delta"] = out.BestDelta
	} else {
		data["best_years_to_maturity"] = nil
		data["best_dealer_customer_volume_delta"] = nil
	}
	return models.Verdict{
		Status:  status,
		Errors:  out.Errors,
		Summary: fmt.Sprintf("Treasury volume delta lookup %s (requested date %s).", status, target.Date),
		Data:    data,
	}
}

// titleWords capitalizes each word, matching the summary casing of single
// lookups ("Short Interest", "Weekly Share").
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
