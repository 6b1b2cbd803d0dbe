package usecase

import (
	"encoding/json"
	"strings"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
)

const (
	taskFetchShortInterest = "fetch_short_interest"
	taskMaxShortInterest   = "max_short_interest"
	taskTreasuryAggregate  = "treasury_daily_aggregate"
)

// buildTaskPayload renders the outbound purple task as a JSON string. The
// payload carries the task verb, the lookup arguments, an expected-response
// schema hint, and free-text notes telling the agent how to handle
// closest-date retries.
func (a *Assessor) buildTaskPayload(req models.AssessmentRequest, cls models.Classification, symbols []string, target models.TargetDate) (string, error) {
	question := strings.TrimSpace(req.ConfigString("question"))
	datasetGroup := req.ConfigString("dataset_group", "datasetGroup")
	datasetName := req.ConfigString("dataset_name", "datasetName")
	explicitEval := req.ConfigString("dataset_group_eval", "datasetGroupEval") != "" ||
		req.ConfigString("dataset_name_eval", "datasetNameEval") != ""

	var payload map[string]interface{}
	switch {
	case cls.Kind == models.DatasetTreasuryAggregate:
		payload = treasuryPayload(cls.Shape, target.Date)
	case cls.Shape == models.ShapeMultiSymbolMax:
		payload = maxSymbolsPayload(cls.Kind, symbols, target.Date)
	default:
		payload = singleSymbolPayload(cls.Kind, req.ConfigString("symbol"), target.Date)
		if issueName := req.ConfigString("issue_name", "issueName"); issueName != "" {
			payload["args"].(map[string]interface{})["issue_name"] = issueName
		}
	}

	if question != "" {
		payload["question"] = question
	}
	if datasetGroup != "" && !explicitEval {
		payload["dataset_group"] = datasetGroup
	}
	if datasetName != "" && !explicitEval {
		payload["dataset_name"] = datasetName
	}

	clientID := req.ConfigString("finra_client_id", "finraClientId")
	if clientID == "" {
		clientID = a.finraClientID
	}
	clientSecret := req.ConfigString("finra_client_secret", "finraClientSecret")
	if clientSecret == "" {
		clientSecret = a.finraClientSecret
	}
	if clientID != "" {
		payload["finra_client_id"] = clientID
	}
	if clientSecret != "" {
		payload["finra_client_secret"] = clientSecret
	}
	if timeout, ok := req.ConfigValue("timeout"); ok {
		payload["timeout"] = timeout
	}
	if _, ok := payload["min_attempts"]; !ok {
		payload["min_attempts"] = a.cfg.MinAttempts
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func singleSymbolPayload(kind models.DatasetKind, symbol, date string) map[string]interface{} {
	expected := map[string]interface{}{
		"symbol":                       "string",
		"settlement_date":              "YYYY-MM-DD",
		"currentShortPositionQuantity": "number",
		"record":                       "object (raw dataset row)",
	}
	notes := "Look up the dataset with dataset_group/dataset_name if provided and return only JSON (no markdown)."
	if kind == models.DatasetWeeklySummary {
		expected = map[string]interface{}{
			"symbol":                   "string",
			"weekStartDate":            "YYYY-MM-DD",
			"totalWeeklyShareQuantity": "number",
			"record":                   "object (raw dataset row)",
		}
		notes = "Look up the dataset with dataset_group/dataset_name if provided. For weeklySummary, " +
			"return totalWeeklyShareQuantity and the closest available weekStartDate/summaryStartDate. " +
			"Return only JSON (no markdown)."
	}
	return map[string]interface{}{
		"task": taskFetchShortInterest,
		"args": map[string]interface{}{
			"symbol":          symbol,
			"settlement_date": date,
		},
		"requested_settlement_date": date,
		"expected_response":         expected,
		"notes":                     notes,
	}
}

func maxSymbolsPayload(kind models.DatasetKind, symbols []string, date string) map[string]interface{} {
	expected := map[string]interface{}{
		"best_symbol":   "string",
		"best_quantity": "number",
		"results":       "array",
	}
	notes := "Look up the dataset for each symbol. Use dataset_group/dataset_name if provided. " +
		"Try multiple dates to find the closest available settlement date and include attempts in the response. " +
		"Return JSON only."
	if kind == models.DatasetWeeklySummary {
		expected = map[string]interface{}{
			"best_symbol":   "string",
			"best_quantity": "number (totalWeeklyShareQuantity)",
			"results":       "array",
		}
		notes = "Look up the dataset for each symbol. Use dataset_group/dataset_name if provided. " +
			"For weeklySummary, use totalWeeklyShareQuantity and pick the closest available " +
			"weekStartDate/summaryStartDate; include attempts in the response. Return JSON only."
	}
	return map[string]interface{}{
		"task": taskMaxShortInterest,
		"args": map[string]interface{}{
			"symbols":         symbols,
			"settlement_date": date,
		},
		"requested_settlement_date": date,
		"expected_response":         expected,
		"notes":                     notes,
	}
}

func treasuryPayload(shape models.ResponseShape, date string) map[string]interface{} {
	var expected map[string]interface{}
	var notes string
	switch shape {
	case models.ShapeTreasuryDelta:
		expected = map[string]interface{}{
			"best_years_to_maturity":            "string (maturity bucket)",
			"best_dealer_customer_volume_delta": "number",
			"candidates":                        "array (current trade date)",
			"previous_candidates":               "array (one year prior)",
		}
		notes = "Query treasuryDailyAggregates for the requested trade date and for the same date one year " +
			"earlier. Include per-bucket candidates for both dates and the bucket with the largest " +
			"year-over-year dealer customer volume change. Return JSON only."
	case models.ShapeTreasuryMax:
		expected = map[string]interface{}{
			"best_years_to_maturity":      "string (maturity bucket)",
			"best_dealer_customer_volume": "number",
			"candidates":                  "array",
		}
		notes = "Query treasuryDailyAggregates for the requested trade date. Include all maturity-bucket " +
			"candidates and the bucket with the highest dealer customer volume. Return JSON only."
	default:
		expected = map[string]interface{}{
			"years_to_maturity":    "string (maturity bucket)",
			"benchmark":            "string (On-the-run / Off-the-run)",
			"trade_date":           "YYYY-MM-DD",
			"dealerCustomerVolume": "number",
			"record":               "object (raw dataset row)",
		}
		notes = "Query treasuryDailyAggregates for the requested trade date, maturity bucket and benchmark. " +
			"Return only JSON (no markdown)."
	}
	return map[string]interface{}{
		"task": taskTreasuryAggregate,
		"args": map[string]interface{}{
			"trade_date": date,
		},
		"requested_settlement_date": date,
		"expected_response":         expected,
		"notes":                     notes,
	}
}
